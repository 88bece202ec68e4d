package stor

import (
	"context"
	"fmt"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"gorm.io/gorm"
)

type GormTagLinkStor struct {
	db *gorm.DB
}

func NewGormTagLinkStor(db *gorm.DB) *GormTagLinkStor {
	return &GormTagLinkStor{db: db}
}

func (s *GormTagLinkStor) ListTagsInUse(ctx context.Context, ct omodel.ContainerType, opts omodel.ServiceOpts) ([]omodel.Tag, error) {
	var annotations []omodel.Annotation

	q := s.db.WithContext(ctx).
		Table(ct.AnnotationLinkTable()+" AS link").
		Select("DISTINCT a.id, a.textvalue, a.owner_id, a.group_id").
		Joins("JOIN annotation a ON a.id = link.child").
		Where("a.discriminator = ?", omodel.TagDiscriminator)

	err := withGroup(q, "link.group_id", opts).
		Order("a.textvalue").
		Scan(&annotations).Error
	if err != nil {
		return nil, fmt.Errorf("listing tags on %s: %w", ct.OmeroClass(), err)
	}

	tags := make([]omodel.Tag, 0, len(annotations))
	for _, a := range annotations {
		tags = append(tags, a.ToTag())
	}

	return tags, nil
}

func (s *GormTagLinkStor) FindParentsWithTags(ctx context.Context, ct omodel.ContainerType, includeIDs, excludeIDs []int64, matchAll bool, opts omodel.ServiceOpts) ([]int64, error) {
	include := UniqueIDs(includeIDs)
	if len(include) == 0 {
		return nil, nil
	}

	exclude := UniqueIDs(excludeIDs)
	table := ct.AnnotationLinkTable()
	db := s.db.WithContext(ctx)

	q := withGroup(db.Table(table).Where("child IN ?", include), "group_id", opts)

	if len(exclude) > 0 {
		excluded := withGroup(db.Table(table).Select("parent").Where("child IN ?", exclude), "group_id", opts)
		q = q.Where("parent NOT IN (?)", excluded)
	}

	q = q.Group("parent")
	if matchAll {
		// A parent linked to all N include tags has N distinct children
		// left after the IN filter.
		q = q.Having("COUNT(DISTINCT child) = ?", len(include))
	}

	var parentIDs []int64
	if err := q.Order("parent").Pluck("parent", &parentIDs).Error; err != nil {
		return nil, fmt.Errorf("finding %s with tags: %w", ct.OmeroClass(), err)
	}

	return parentIDs, nil
}

func (s *GormTagLinkStor) ListTagsOnParents(ctx context.Context, ct omodel.ContainerType, parentIDs []int64, opts omodel.ServiceOpts) ([]int64, error) {
	var tagIDs []int64

	for _, chunk := range ChunkIDs(UniqueIDs(parentIDs), MaxIDsPerQuery) {
		var ids []int64

		q := s.db.WithContext(ctx).
			Table(ct.AnnotationLinkTable()+" AS link").
			Joins("JOIN annotation a ON a.id = link.child").
			Where("link.parent IN ?", chunk).
			Where("a.discriminator = ?", omodel.TagDiscriminator)

		err := withGroup(q, "link.group_id", opts).
			Distinct("link.child").
			Pluck("link.child", &ids).Error
		if err != nil {
			return nil, fmt.Errorf("listing tags on %s parents: %w", ct.OmeroClass(), err)
		}

		tagIDs = append(tagIDs, ids...)
	}

	return UniqueIDs(tagIDs), nil
}
