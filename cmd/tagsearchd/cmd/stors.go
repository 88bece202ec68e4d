package cmd

import (
	"github.com/apex/log"
	"github.com/materials-commons/tagsearch/pkg/config"
	"github.com/materials-commons/tagsearch/pkg/omerodb"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
	"github.com/materials-commons/tagsearch/pkg/omerogw"
)

// mustCreateStors connects to the backend named by TAGSEARCH_BACKEND.
func mustCreateStors(c config.Configer) *stor.Stors {
	backend := c.GetKeyWithDefault(config.KeyBackend, config.BackendDB)

	switch backend {
	case config.BackendDB:
		db := omerodb.MustConnectToDB(c)
		return stor.NewGormStors(db)

	case config.BackendGateway:
		gatewayURL := c.MustGetKey(config.KeyGatewayURL)
		log.Infof("Using OMERO gateway at %s", gatewayURL)
		client := omerogw.NewClient(gatewayURL, c.GetKey(config.KeyGatewaySession))
		return omerogw.NewStors(client)

	default:
		log.Fatalf("Unknown %s '%s', must be %s or %s", config.KeyBackend, backend, config.BackendDB, config.BackendGateway)
		return nil
	}
}
