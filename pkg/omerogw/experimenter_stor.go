package omerogw

import (
	"context"
	"fmt"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
)

// ExperimenterStor reads users and groups. Those are visible from every group,
// so all of its queries run cross-group.
type ExperimenterStor struct {
	client *Client
}

func NewExperimenterStor(client *Client) *ExperimenterStor {
	return &ExperimenterStor{client: client}
}

func (s *ExperimenterStor) query(ctx context.Context, hql string, params Params) ([][]any, error) {
	return s.client.Projection(ctx, hql, params, omodel.CrossGroup())
}

func (s *ExperimenterStor) GetExperimenterByID(ctx context.Context, id int64) (*omodel.Experimenter, error) {
	return s.getExperimenter(ctx, experimenterByIDHQL, Params{"id": id}, fmt.Sprintf("experimenter %d", id))
}

func (s *ExperimenterStor) GetExperimenterByOmeName(ctx context.Context, omeName string) (*omodel.Experimenter, error) {
	return s.getExperimenter(ctx, experimenterByOmeNameHQL, Params{"name": omeName}, fmt.Sprintf("experimenter '%s'", omeName))
}

func (s *ExperimenterStor) getExperimenter(ctx context.Context, hql string, params Params, what string) (*omodel.Experimenter, error) {
	rows, err := s.query(ctx, hql, params)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", what, stor.ErrNotFound)
	}

	e, err := experimenterFromRow(rows[0])
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// experimenterFromRow reads (id, omeName, firstName, lastName, email).
func experimenterFromRow(row []any) (omodel.Experimenter, error) {
	if len(row) < 5 {
		return omodel.Experimenter{}, fmt.Errorf("experimenter row has %d columns, wanted 5", len(row))
	}

	id, err := toInt64(row[0])
	if err != nil {
		return omodel.Experimenter{}, err
	}

	return omodel.Experimenter{
		ID:        id,
		OmeName:   toString(row[1]),
		FirstName: toString(row[2]),
		LastName:  toString(row[3]),
		Email:     toString(row[4]),
	}, nil
}

func groupsFromRows(rows [][]any) ([]omodel.ExperimenterGroup, error) {
	groups := make([]omodel.ExperimenterGroup, 0, len(rows))
	for _, row := range rows {
		id, err := int64Column(row, 0)
		if err != nil {
			return nil, err
		}

		name, err := column(row, 1)
		if err != nil {
			return nil, err
		}

		groups = append(groups, omodel.ExperimenterGroup{ID: id, Name: toString(name)})
	}

	return groups, nil
}

func (s *ExperimenterStor) GetGroupByID(ctx context.Context, id int64) (*omodel.ExperimenterGroup, error) {
	rows, err := s.query(ctx, groupByIDHQL, Params{"id": id})
	if err != nil {
		return nil, err
	}

	groups, err := groupsFromRows(rows)
	if err != nil {
		return nil, err
	}

	if len(groups) == 0 {
		return nil, fmt.Errorf("group %d: %w", id, stor.ErrNotFound)
	}

	return &groups[0], nil
}

func (s *ExperimenterStor) ListGroups(ctx context.Context) ([]omodel.ExperimenterGroup, error) {
	rows, err := s.query(ctx, groupsHQL, nil)
	if err != nil {
		return nil, err
	}

	return groupsFromRows(rows)
}

func (s *ExperimenterStor) ListGroupsForExperimenter(ctx context.Context, experimenterID int64) ([]omodel.ExperimenterGroup, error) {
	rows, err := s.query(ctx, groupsForExperimenterHQL, Params{"id": experimenterID})
	if err != nil {
		return nil, err
	}

	return groupsFromRows(rows)
}

func (s *ExperimenterStor) GetGroupSummary(ctx context.Context, groupID int64) (*omodel.GroupSummary, error) {
	group, err := s.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, groupMembersHQL, Params{"id": groupID})
	if err != nil {
		return nil, err
	}

	leaderIDs := make(map[int64]bool)
	experimenters := make([]omodel.Experimenter, 0, len(rows))
	for _, row := range rows {
		e, err := experimenterFromRow(row)
		if err != nil {
			return nil, err
		}

		if len(row) > 5 && toBool(row[5]) {
			leaderIDs[e.ID] = true
		}

		experimenters = append(experimenters, e)
	}

	return stor.SummarizeGroup(*group, experimenters, leaderIDs), nil
}

func (s *ExperimenterStor) GetEventContext(ctx context.Context, experimenterID int64) (*omodel.EventContext, error) {
	e, err := s.GetExperimenterByID(ctx, experimenterID)
	if err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, membershipsHQL, Params{"id": experimenterID})
	if err != nil {
		return nil, err
	}

	memberships := make([]omodel.GroupExperimenterMap, 0, len(rows))
	for _, row := range rows {
		groupID, err := int64Column(row, 0)
		if err != nil {
			return nil, err
		}

		m := omodel.GroupExperimenterMap{ParentID: groupID, ChildID: experimenterID}
		if len(row) > 1 {
			m.Owner = toBool(row[1])
		}

		memberships = append(memberships, m)
	}

	systemRows, err := s.query(ctx, groupByNameHQL, Params{"name": omodel.SystemGroupName})
	if err != nil {
		return nil, err
	}

	systemGroupID := int64(-1)
	if groups, err := groupsFromRows(systemRows); err == nil && len(groups) > 0 {
		systemGroupID = groups[0].ID
	}

	return stor.BuildEventContext(e, memberships, systemGroupID), nil
}
