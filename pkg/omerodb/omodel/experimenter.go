package omodel

import "strings"

type Experimenter struct {
	ID        int64  `json:"id" gorm:"column:id;primaryKey"`
	OmeName   string `json:"ome_name" gorm:"column:omename;uniqueIndex"`
	FirstName string `json:"first_name" gorm:"column:firstname"`
	LastName  string `json:"last_name" gorm:"column:lastname"`
	Email     string `json:"email" gorm:"column:email"`
}

func (Experimenter) TableName() string { return "experimenter" }

func (e Experimenter) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

type ExperimenterGroup struct {
	ID   int64  `json:"id" gorm:"column:id;primaryKey"`
	Name string `json:"name" gorm:"column:name"`
}

func (ExperimenterGroup) TableName() string { return "experimentergroup" }

// Names of the groups that every OMERO server has.
const (
	SystemGroupName = "system"
	UserGroupName   = "user"
	GuestGroupName  = "guest"
)

// GroupExperimenterMap is group membership. Owner marks a group leader and the
// membership with the lowest ChildIndex is the experimenter's default group.
type GroupExperimenterMap struct {
	ID         int64 `gorm:"column:id;primaryKey"`
	ParentID   int64 `gorm:"column:parent;index"`
	ChildID    int64 `gorm:"column:child;index"`
	Owner      bool  `gorm:"column:owner"`
	ChildIndex int   `gorm:"column:child_index"`
}

func (GroupExperimenterMap) TableName() string { return "groupexperimentermap" }

// GroupSummary splits the members of a group into its leaders and everyone else.
type GroupSummary struct {
	Group      ExperimenterGroup `json:"group"`
	Leaders    []Experimenter    `json:"leaders"`
	Colleagues []Experimenter    `json:"colleagues"`
}

// MemberIDs returns the ids of leaders followed by colleagues.
func (s *GroupSummary) MemberIDs() []int64 {
	ids := make([]int64, 0, len(s.Leaders)+len(s.Colleagues))
	for _, e := range s.Leaders {
		ids = append(ids, e.ID)
	}

	for _, e := range s.Colleagues {
		ids = append(ids, e.ID)
	}

	return ids
}

func (s *GroupSummary) HasMember(experimenterID int64) bool {
	for _, id := range s.MemberIDs() {
		if id == experimenterID {
			return true
		}
	}

	return false
}

// EventContext describes who is making a request and in which group.
type EventContext struct {
	UserID         int64   `json:"user_id"`
	UserName       string  `json:"user_name"`
	GroupID        int64   `json:"group_id"`
	IsAdmin        bool    `json:"is_admin"`
	LeaderOfGroups []int64 `json:"leader_of_groups"`
}

func (ec *EventContext) IsLeaderOf(groupID int64) bool {
	for _, id := range ec.LeaderOfGroups {
		if id == groupID {
			return true
		}
	}

	return false
}
