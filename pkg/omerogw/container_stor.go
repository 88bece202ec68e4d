package omerogw

import (
	"context"
	"fmt"
	"sort"

	"github.com/materials-commons/tagsearch/pkg/decoder"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
)

type ContainerStor struct {
	client *Client
}

func NewContainerStor(client *Client) *ContainerStor {
	return &ContainerStor{client: client}
}

// gatewayObject is the part of a loaded object that a container needs.
type gatewayObject struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
	GroupID int64  `json:"group_id"`
}

func (s *ContainerStor) GetContainer(ctx context.Context, ct omodel.ContainerType, id int64, opts omodel.ServiceOpts) (*omodel.Container, error) {
	containers, err := s.GetContainers(ctx, ct, []int64{id}, opts)
	if err != nil {
		return nil, err
	}

	if len(containers) == 0 {
		return nil, fmt.Errorf("%s %d: %w", ct.OmeroClass(), id, stor.ErrNotFound)
	}

	return &containers[0], nil
}

func (s *ContainerStor) GetContainers(ctx context.Context, ct omodel.ContainerType, ids []int64, opts omodel.ServiceOpts) ([]omodel.Container, error) {
	if _, ok := omodel.ParseContainerType(ct.String()); !ok {
		return nil, fmt.Errorf("unknown container type '%s'", ct)
	}

	if ct == omodel.WellType {
		return s.getWells(ctx, ids, opts)
	}

	var containers []omodel.Container
	for _, chunk := range stor.ChunkIDs(stor.UniqueIDs(ids), stor.MaxIDsPerQuery) {
		objects, err := s.client.GetObjects(ctx, ct.OmeroClass(), chunk, opts)
		if err != nil {
			return nil, err
		}

		for _, o := range objects {
			obj, err := decoder.DecodeMap[gatewayObject](o)
			if err != nil {
				return nil, fmt.Errorf("decoding %s: %w", ct.OmeroClass(), err)
			}

			containers = append(containers, omodel.Container{
				Type:    ct,
				ID:      obj.ID,
				Name:    obj.Name,
				OwnerID: obj.OwnerID,
				GroupID: obj.GroupID,
			})
		}
	}

	sort.Slice(containers, func(i, j int) bool { return containers[i].ID < containers[j].ID })
	return containers, nil
}

// getWells labels each well with its plate name and position.
func (s *ContainerStor) getWells(ctx context.Context, ids []int64, opts omodel.ServiceOpts) ([]omodel.Container, error) {
	var containers []omodel.Container

	for _, chunk := range stor.ChunkIDs(stor.UniqueIDs(ids), stor.MaxIDsPerQuery) {
		rows, err := s.client.Projection(ctx, wellLabelsHQL, Params{"ids": chunk}, opts)
		if err != nil {
			return nil, fmt.Errorf("loading Well: %w", err)
		}

		for _, row := range rows {
			well, err := wellFromRow(row)
			if err != nil {
				return nil, err
			}

			containers = append(containers, well)
		}
	}

	return containers, nil
}

// wellFromRow reads (id, plate name, row, column, row naming, column naming,
// owner id, group id).
func wellFromRow(row []any) (omodel.Container, error) {
	if len(row) < 8 {
		return omodel.Container{}, fmt.Errorf("well row has %d columns, wanted 8", len(row))
	}

	ints := make([]int64, 0, 5)
	for _, i := range []int{0, 2, 3, 6, 7} {
		n, err := toInt64(row[i])
		if err != nil {
			return omodel.Container{}, err
		}
		ints = append(ints, n)
	}

	return omodel.Container{
		Type:    omodel.WellType,
		ID:      ints[0],
		Name:    omodel.WellName(toString(row[1]), int(ints[1]), int(ints[2]), toString(row[4]), toString(row[5])),
		OwnerID: ints[3],
		GroupID: ints[4],
	}, nil
}

func (s *ContainerStor) GetAncestry(ctx context.Context, c *omodel.Container) ([]omodel.Container, error) {
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

func (s *ContainerStor) getParent(ctx context.Context, c omodel.Container) (*omodel.Container, error) {
	var (
		hql        string
		parentType omodel.ContainerType
	)

	switch c.Type {
	case omodel.ImageType:
		hql, parentType = linkParentHQL[c.Type], omodel.DatasetType
	case omodel.DatasetType:
		hql, parentType = linkParentHQL[c.Type], omodel.ProjectType
	case omodel.PlateType:
		hql, parentType = linkParentHQL[c.Type], omodel.ScreenType
	case omodel.AcquisitionType:
		hql, parentType = acquisitionPlateHQL, omodel.PlateType
	case omodel.WellType:
		hql, parentType = wellPlateHQL, omodel.PlateType
	default:
		return nil, nil
	}

	parentID, found, err := s.firstID(ctx, hql, c.ID)
	if err != nil || !found {
		return nil, err
	}

	return s.GetContainer(ctx, parentType, parentID, omodel.CrossGroup())
}

// firstID runs a single-id lookup across groups and returns the first column
// of the first row.
func (s *ContainerStor) firstID(ctx context.Context, hql string, id int64) (int64, bool, error) {
	rows, err := s.client.Projection(ctx, hql, Params{"id": id}, omodel.CrossGroup())
	if err != nil {
		return 0, false, err
	}

	if len(rows) == 0 {
		return 0, false, nil
	}

	parentID, err := int64Column(rows[0], 0)
	return parentID, err == nil, err
}

func (s *ContainerStor) GetWellParent(ctx context.Context, wellID int64) (*omodel.Container, error) {
	rows, err := s.client.Projection(ctx, wellSampleParentHQL, Params{"id": wellID}, omodel.CrossGroup())
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("well %d has no samples: %w", wellID, stor.ErrNotFound)
	}

	row := rows[0]
	if len(row) >= 1 && row[0] != nil {
		acquisitionID, err := toInt64(row[0])
		if err != nil {
			return nil, err
		}
		return s.GetContainer(ctx, omodel.AcquisitionType, acquisitionID, omodel.CrossGroup())
	}

	plateID, err := int64Column(row, 1)
	if err != nil {
		return nil, err
	}

	return s.GetContainer(ctx, omodel.PlateType, plateID, omodel.CrossGroup())
}
