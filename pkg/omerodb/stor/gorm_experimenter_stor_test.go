package stor_test

import (
	"context"
	"testing"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omerotest"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormExperimenterStor(t *testing.T) {
	f := omerotest.NewFixture(t)
	system := f.Group(omodel.SystemGroupName)
	user := f.Group(omodel.UserGroupName)
	lab := f.Group("Lab")

	root := f.Experimenter("root", "Root", "Admin")
	alice := f.Experimenter("alice", "Alice", "Zed")
	bob := f.Experimenter("bob", "Bob", "Adams")

	f.AddMember(system, root, false, 0)
	f.AddMember(user, root, false, 1)
	f.AddMember(lab, alice, true, 0)
	f.AddMember(user, alice, false, 1)
	f.AddMember(lab, bob, false, 0)

	s := stor.NewGormExperimenterStor(f.DB)
	ctx := context.Background()

	t.Run("lookup", func(t *testing.T) {
		e, err := s.GetExperimenterByOmeName(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, e.ID)
		assert.Equal(t, "Alice Zed", e.FullName())

		_, err = s.GetExperimenterByOmeName(ctx, "nobody")
		assert.ErrorIs(t, err, stor.ErrNotFound)

		_, err = s.GetGroupByID(ctx, 999)
		assert.ErrorIs(t, err, stor.ErrNotFound)
	})

	t.Run("groups", func(t *testing.T) {
		groups, err := s.ListGroups(ctx)
		require.NoError(t, err)
		assert.Len(t, groups, 3)

		groups, err = s.ListGroupsForExperimenter(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []omodel.ExperimenterGroup{user, lab}, groups)
	})

	t.Run("summary", func(t *testing.T) {
		summary, err := s.GetGroupSummary(ctx, lab.ID)
		require.NoError(t, err)
		assert.Equal(t, []omodel.Experimenter{alice}, summary.Leaders)
		assert.Equal(t, []omodel.Experimenter{bob}, summary.Colleagues)
	})

	t.Run("event context", func(t *testing.T) {
		ec, err := s.GetEventContext(ctx, root.ID)
		require.NoError(t, err)
		assert.True(t, ec.IsAdmin)
		assert.Equal(t, system.ID, ec.GroupID)

		ec, err = s.GetEventContext(ctx, alice.ID)
		require.NoError(t, err)
		assert.False(t, ec.IsAdmin)
		assert.Equal(t, lab.ID, ec.GroupID)
		assert.True(t, ec.IsLeaderOf(lab.ID))
		assert.Equal(t, "alice", ec.UserName)
	})
}

func TestSummarizeGroupSortsByName(t *testing.T) {
	experimenters := []omodel.Experimenter{
		{ID: 1, FirstName: "b", LastName: "smith"},
		{ID: 2, FirstName: "a", LastName: "Smith"},
		{ID: 3, FirstName: "z", LastName: "jones"},
		{ID: 4, FirstName: "x", LastName: "Young"},
	}

	summary := stor.SummarizeGroup(omodel.ExperimenterGroup{ID: 1}, experimenters, map[int64]bool{4: true})
	assert.Equal(t, []int64{4, 3, 2, 1}, summary.MemberIDs())
	assert.Len(t, summary.Leaders, 1)
	assert.NotNil(t, summary.Colleagues)
}

func TestUniqueAndChunkIDs(t *testing.T) {
	assert.Nil(t, stor.UniqueIDs(nil))
	in := []int64{3, 1, 3, 2}
	assert.Equal(t, []int64{1, 2, 3}, stor.UniqueIDs(in))
	assert.Equal(t, []int64{3, 1, 3, 2}, in)

	chunks := stor.ChunkIDs([]int64{1, 2, 3, 4, 5}, 2)
	assert.Equal(t, [][]int64{{1, 2}, {3, 4}, {5}}, chunks)
	assert.Empty(t, stor.ChunkIDs(nil, 2))
}
