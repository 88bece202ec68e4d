package omerogw

import "github.com/materials-commons/tagsearch/pkg/omerodb/stor"

// NewStors returns stors that answer every query through the gateway.
func NewStors(client *Client) *stor.Stors {
	return &stor.Stors{
		TagLinkStor:      NewTagLinkStor(client),
		ContainerStor:    NewContainerStor(client),
		ExperimenterStor: NewExperimenterStor(client),
	}
}
