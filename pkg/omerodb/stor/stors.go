package stor

import (
	"context"
	"errors"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// TagLinkStor answers questions about tag annotation links. Every method is
// parameterized by container type and runs one query against that type's
// annotation link table.
type TagLinkStor interface {
	// ListTagsInUse returns the tags linked to at least one container of the
	// given type, ordered by text value.
	ListTagsInUse(ctx context.Context, ct omodel.ContainerType, opts omodel.ServiceOpts) ([]omodel.Tag, error)

	// FindParentsWithTags returns the ids of the containers linked to the
	// include tags and to none of the exclude tags. When matchAll is true a
	// container has to be linked to every include tag, otherwise to any of them.
	FindParentsWithTags(ctx context.Context, ct omodel.ContainerType, includeIDs, excludeIDs []int64, matchAll bool, opts omodel.ServiceOpts) ([]int64, error)

	// ListTagsOnParents returns the distinct ids of tags linked to any of the
	// given containers.
	ListTagsOnParents(ctx context.Context, ct omodel.ContainerType, parentIDs []int64, opts omodel.ServiceOpts) ([]int64, error)
}

type ContainerStor interface {
	GetContainer(ctx context.Context, ct omodel.ContainerType, id int64, opts omodel.ServiceOpts) (*omodel.Container, error)
	GetContainers(ctx context.Context, ct omodel.ContainerType, ids []int64, opts omodel.ServiceOpts) ([]omodel.Container, error)

	// GetAncestry returns the parents of c, nearest first. Images follow their
	// first dataset, plates their first screen.
	GetAncestry(ctx context.Context, c *omodel.Container) ([]omodel.Container, error)

	// GetWellParent returns the plate acquisition of the well's first sample, or
	// its plate when that sample has no acquisition. A well without samples has
	// no parent and returns ErrNotFound.
	GetWellParent(ctx context.Context, wellID int64) (*omodel.Container, error)
}

type ExperimenterStor interface {
	GetExperimenterByID(ctx context.Context, id int64) (*omodel.Experimenter, error)
	GetExperimenterByOmeName(ctx context.Context, omeName string) (*omodel.Experimenter, error)
	GetGroupByID(ctx context.Context, id int64) (*omodel.ExperimenterGroup, error)
	ListGroups(ctx context.Context) ([]omodel.ExperimenterGroup, error)
	ListGroupsForExperimenter(ctx context.Context, experimenterID int64) ([]omodel.ExperimenterGroup, error)
	GetGroupSummary(ctx context.Context, groupID int64) (*omodel.GroupSummary, error)
	GetEventContext(ctx context.Context, experimenterID int64) (*omodel.EventContext, error)
}

type Stors struct {
	TagLinkStor      TagLinkStor
	ContainerStor    ContainerStor
	ExperimenterStor ExperimenterStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		TagLinkStor:      NewGormTagLinkStor(db),
		ContainerStor:    NewGormContainerStor(db),
		ExperimenterStor: NewGormExperimenterStor(db),
	}
}
