package stor

import (
	"context"
	"sort"
	"strings"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"gorm.io/gorm"
)

type GormExperimenterStor struct {
	db *gorm.DB
}

func NewGormExperimenterStor(db *gorm.DB) *GormExperimenterStor {
	return &GormExperimenterStor{db: db}
}

func (s *GormExperimenterStor) GetExperimenterByID(ctx context.Context, id int64) (*omodel.Experimenter, error) {
	var e omodel.Experimenter
	if err := s.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, notFoundOr(err)
	}

	return &e, nil
}

func (s *GormExperimenterStor) GetExperimenterByOmeName(ctx context.Context, omeName string) (*omodel.Experimenter, error) {
	var e omodel.Experimenter
	if err := s.db.WithContext(ctx).Where("omename = ?", omeName).First(&e).Error; err != nil {
		return nil, notFoundOr(err)
	}

	return &e, nil
}

func (s *GormExperimenterStor) GetGroupByID(ctx context.Context, id int64) (*omodel.ExperimenterGroup, error) {
	var g omodel.ExperimenterGroup
	if err := s.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, notFoundOr(err)
	}

	return &g, nil
}

func (s *GormExperimenterStor) ListGroups(ctx context.Context) ([]omodel.ExperimenterGroup, error) {
	var groups []omodel.ExperimenterGroup
	err := s.db.WithContext(ctx).Order("id").Find(&groups).Error
	return groups, err
}

func (s *GormExperimenterStor) ListGroupsForExperimenter(ctx context.Context, experimenterID int64) ([]omodel.ExperimenterGroup, error) {
	var groups []omodel.ExperimenterGroup
	db := s.db.WithContext(ctx)

	err := db.Where("id IN (?)",
		db.Model(&omodel.GroupExperimenterMap{}).
			Select("parent").
			Where("child = ?", experimenterID)).
		Order("id").
		Find(&groups).Error
	return groups, err
}

func (s *GormExperimenterStor) GetGroupSummary(ctx context.Context, groupID int64) (*omodel.GroupSummary, error) {
	group, err := s.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var memberships []omodel.GroupExperimenterMap
	if err := s.db.WithContext(ctx).Where("parent = ?", groupID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	leaderIDs := make(map[int64]bool)
	var memberIDs []int64
	for _, m := range memberships {
		memberIDs = append(memberIDs, m.ChildID)
		if m.Owner {
			leaderIDs[m.ChildID] = true
		}
	}

	var experimenters []omodel.Experimenter
	if len(memberIDs) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", UniqueIDs(memberIDs)).Find(&experimenters).Error; err != nil {
			return nil, err
		}
	}

	return SummarizeGroup(*group, experimenters, leaderIDs), nil
}

// SummarizeGroup splits experimenters into leaders and colleagues, each sorted
// by last name then first name.
func SummarizeGroup(group omodel.ExperimenterGroup, experimenters []omodel.Experimenter, leaderIDs map[int64]bool) *omodel.GroupSummary {
	summary := &omodel.GroupSummary{
		Group:      group,
		Leaders:    []omodel.Experimenter{},
		Colleagues: []omodel.Experimenter{},
	}

	for _, e := range experimenters {
		if leaderIDs[e.ID] {
			summary.Leaders = append(summary.Leaders, e)
		} else {
			summary.Colleagues = append(summary.Colleagues, e)
		}
	}

	sortExperimenters(summary.Leaders)
	sortExperimenters(summary.Colleagues)
	return summary
}

func sortExperimenters(experimenters []omodel.Experimenter) {
	sort.SliceStable(experimenters, func(i, j int) bool {
		a, b := experimenters[i], experimenters[j]
		if la, lb := strings.ToLower(a.LastName), strings.ToLower(b.LastName); la != lb {
			return la < lb
		}

		if fa, fb := strings.ToLower(a.FirstName), strings.ToLower(b.FirstName); fa != fb {
			return fa < fb
		}

		return a.ID < b.ID
	})
}

func (s *GormExperimenterStor) GetEventContext(ctx context.Context, experimenterID int64) (*omodel.EventContext, error) {
	e, err := s.GetExperimenterByID(ctx, experimenterID)
	if err != nil {
		return nil, err
	}

	var memberships []omodel.GroupExperimenterMap
	if err := s.db.WithContext(ctx).Where("child = ?", experimenterID).Order("child_index, id").Find(&memberships).Error; err != nil {
		return nil, err
	}

	var systemGroup omodel.ExperimenterGroup
	systemGroupID := int64(-1)
	result := s.db.WithContext(ctx).Where("name = ?", omodel.SystemGroupName).Limit(1).Find(&systemGroup)
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected > 0 {
		systemGroupID = systemGroup.ID
	}

	return BuildEventContext(e, memberships, systemGroupID), nil
}

// BuildEventContext derives the event context from memberships ordered by
// child index. The first membership is the default group.
func BuildEventContext(e *omodel.Experimenter, memberships []omodel.GroupExperimenterMap, systemGroupID int64) *omodel.EventContext {
	ec := &omodel.EventContext{
		UserID:         e.ID,
		UserName:       e.OmeName,
		GroupID:        omodel.AllGroups,
		LeaderOfGroups: []int64{},
	}

	for i, m := range memberships {
		if i == 0 {
			ec.GroupID = m.ParentID
		}

		if m.ParentID == systemGroupID {
			ec.IsAdmin = true
		}

		if m.Owner {
			ec.LeaderOfGroups = append(ec.LeaderOfGroups, m.ParentID)
		}
	}

	return ec
}
