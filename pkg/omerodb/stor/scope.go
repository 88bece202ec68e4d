package stor

import (
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"gorm.io/gorm"
)

// withGroup restricts q to opts.Group unless the call is cross-group.
func withGroup(q *gorm.DB, column string, opts omodel.ServiceOpts) *gorm.DB {
	if opts.IsCrossGroup() {
		return q
	}

	return q.Where(column+" = ?", opts.Group)
}
