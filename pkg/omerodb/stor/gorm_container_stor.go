package stor

import (
	"context"
	"errors"
	"fmt"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"gorm.io/gorm"
)

type GormContainerStor struct {
	db *gorm.DB
}

func NewGormContainerStor(db *gorm.DB) *GormContainerStor {
	return &GormContainerStor{db: db}
}

type containerRow struct {
	ID      int64  `gorm:"column:id"`
	Name    string `gorm:"column:name"`
	OwnerID int64  `gorm:"column:owner_id"`
	GroupID int64  `gorm:"column:group_id"`
}

func (s *GormContainerStor) GetContainer(ctx context.Context, ct omodel.ContainerType, id int64, opts omodel.ServiceOpts) (*omodel.Container, error) {
	containers, err := s.GetContainers(ctx, ct, []int64{id}, opts)
	if err != nil {
		return nil, err
	}

	if len(containers) == 0 {
		return nil, fmt.Errorf("%s %d: %w", ct.OmeroClass(), id, ErrNotFound)
	}

	return &containers[0], nil
}

func (s *GormContainerStor) GetContainers(ctx context.Context, ct omodel.ContainerType, ids []int64, opts omodel.ServiceOpts) ([]omodel.Container, error) {
	if _, ok := omodel.ParseContainerType(ct.String()); !ok {
		return nil, fmt.Errorf("unknown container type '%s'", ct)
	}

	if ct == omodel.WellType {
		return s.getWells(ctx, ids, opts)
	}

	var containers []omodel.Container
	for _, chunk := range ChunkIDs(UniqueIDs(ids), MaxIDsPerQuery) {
		var rows []containerRow
		q := s.db.WithContext(ctx).
			Table(ct.TableName()).
			Select("id, name, owner_id, group_id").
			Where("id IN ?", chunk)

		if err := withGroup(q, "group_id", opts).Order("id").Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("loading %s: %w", ct.OmeroClass(), err)
		}

		for _, row := range rows {
			containers = append(containers, omodel.Container{
				Type:    ct,
				ID:      row.ID,
				Name:    row.Name,
				OwnerID: row.OwnerID,
				GroupID: row.GroupID,
			})
		}
	}

	return containers, nil
}

// getWells loads wells and names each one after its plate and position.
func (s *GormContainerStor) getWells(ctx context.Context, ids []int64, opts omodel.ServiceOpts) ([]omodel.Container, error) {
	var containers []omodel.Container
	db := s.db.WithContext(ctx)

	for _, chunk := range ChunkIDs(UniqueIDs(ids), MaxIDsPerQuery) {
		var wells []omodel.Well
		if err := withGroup(db.Where("id IN ?", chunk), "group_id", opts).Order("id").Find(&wells).Error; err != nil {
			return nil, fmt.Errorf("loading Well: %w", err)
		}

		plates, err := s.platesForWells(ctx, wells)
		if err != nil {
			return nil, err
		}

		for _, well := range wells {
			plate := plates[well.PlateID]
			containers = append(containers, omodel.Container{
				Type:    omodel.WellType,
				ID:      well.ID,
				Name:    omodel.WellName(plate.Name, well.Row, well.Column, plate.RowNamingConvention, plate.ColumnNamingConvention),
				OwnerID: well.OwnerID,
				GroupID: well.GroupID,
			})
		}
	}

	return containers, nil
}

func (s *GormContainerStor) platesForWells(ctx context.Context, wells []omodel.Well) (map[int64]omodel.Plate, error) {
	plateIDs := make([]int64, 0, len(wells))
	for _, well := range wells {
		plateIDs = append(plateIDs, well.PlateID)
	}

	plates := make(map[int64]omodel.Plate)
	if len(plateIDs) == 0 {
		return plates, nil
	}

	var found []omodel.Plate
	if err := s.db.WithContext(ctx).Where("id IN ?", UniqueIDs(plateIDs)).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("loading plates for wells: %w", err)
	}

	for _, p := range found {
		plates[p.ID] = p
	}

	return plates, nil
}

func (s *GormContainerStor) GetAncestry(ctx context.Context, c *omodel.Container) ([]omodel.Container, error) {
	var ancestry []omodel.Container

	current := *c
	for {
		parent, err := s.getParent(ctx, current)
		switch {
		case err != nil:
			return nil, err
		case parent == nil:
			return ancestry, nil
		}

		ancestry = append(ancestry, *parent)
		current = *parent
	}
}

func (s *GormContainerStor) getParent(ctx context.Context, c omodel.Container) (*omodel.Container, error) {
	switch c.Type {
	case omodel.ImageType:
		return s.parentThroughLink(ctx, omodel.DatasetImageLinkTable, omodel.DatasetType, c.ID)
	case omodel.DatasetType:
		return s.parentThroughLink(ctx, omodel.ProjectDatasetLinkTable, omodel.ProjectType, c.ID)
	case omodel.PlateType:
		return s.parentThroughLink(ctx, omodel.ScreenPlateLinkTable, omodel.ScreenType, c.ID)
	case omodel.AcquisitionType:
		var acquisition omodel.PlateAcquisition
		if err := s.db.WithContext(ctx).First(&acquisition, c.ID).Error; err != nil {
			return nil, notFoundOr(err)
		}
		return s.GetContainer(ctx, omodel.PlateType, acquisition.PlateID, omodel.CrossGroup())
	case omodel.WellType:
		var well omodel.Well
		if err := s.db.WithContext(ctx).First(&well, c.ID).Error; err != nil {
			return nil, notFoundOr(err)
		}
		return s.GetContainer(ctx, omodel.PlateType, well.PlateID, omodel.CrossGroup())
	default:
		return nil, nil
	}
}

// parentThroughLink follows the oldest link from childID to a parent of type
// parentType. It returns nil when the child has no parent.
func (s *GormContainerStor) parentThroughLink(ctx context.Context, linkTable string, parentType omodel.ContainerType, childID int64) (*omodel.Container, error) {
	var parentIDs []int64

	err := s.db.WithContext(ctx).
		Table(linkTable).
		Where("child = ?", childID).
		Order("id").
		Limit(1).
		Pluck("parent", &parentIDs).Error
	if err != nil {
		return nil, err
	}

	if len(parentIDs) == 0 {
		return nil, nil
	}

	return s.GetContainer(ctx, parentType, parentIDs[0], omodel.CrossGroup())
}

func (s *GormContainerStor) GetWellParent(ctx context.Context, wellID int64) (*omodel.Container, error) {
	var samples []omodel.WellSample
	if err := s.db.WithContext(ctx).Where("well = ?", wellID).Order("id").Limit(1).Find(&samples).Error; err != nil {
		return nil, err
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("well %d has no samples: %w", wellID, ErrNotFound)
	}

	if samples[0].PlateAcquisitionID != nil {
		return s.GetContainer(ctx, omodel.AcquisitionType, *samples[0].PlateAcquisitionID, omodel.CrossGroup())
	}

	var well omodel.Well
	if err := s.db.WithContext(ctx).First(&well, wellID).Error; err != nil {
		return nil, notFoundOr(err)
	}

	return s.GetContainer(ctx, omodel.PlateType, well.PlateID, omodel.CrossGroup())
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Join(ErrNotFound, err)
	}

	return err
}
