package apimiddleware

import (
	"context"
	"sync"

	"github.com/materials-commons/tagsearch/pkg/lock"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
)

// ExperimenterCache maps an omeName to the experimenter's event context.
// Loads are serialized per omeName, so a slow lookup for one experimenter
// does not hold up the others.
type ExperimenterCache struct {
	mu               sync.RWMutex
	cache            map[string]*omodel.EventContext
	loading          *lock.KeyLocker[string]
	experimenterStor stor.ExperimenterStor
}

func NewExperimenterCache(experimenterStor stor.ExperimenterStor) *ExperimenterCache {
	return &ExperimenterCache{
		cache:            make(map[string]*omodel.EventContext),
		loading:          lock.NewKeyLocker[string](),
		experimenterStor: experimenterStor,
	}
}

func (c *ExperimenterCache) GetEventContextByOmeName(ctx context.Context, omeName string) (*omodel.EventContext, error) {
	if ec, ok := c.lookup(omeName); ok {
		return ec, nil
	}

	var ec *omodel.EventContext
	err := c.loading.WithLock(omeName, func() error {
		// Another request may have loaded the experimenter while we waited.
		if cached, ok := c.lookup(omeName); ok {
			ec = cached
			return nil
		}

		e, err := c.experimenterStor.GetExperimenterByOmeName(ctx, omeName)
		if err != nil {
			return err
		}

		if ec, err = c.experimenterStor.GetEventContext(ctx, e.ID); err != nil {
			return err
		}

		c.mu.Lock()
		c.cache[omeName] = ec
		c.mu.Unlock()
		return nil
	})

	if err != nil {
		return nil, err
	}

	return ec, nil
}

func (c *ExperimenterCache) lookup(omeName string) (*omodel.EventContext, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ec, ok := c.cache[omeName]
	return ec, ok
}

// Forget drops an experimenter, so group changes are picked up on the next
// request.
func (c *ExperimenterCache) Forget(omeName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, omeName)
}
