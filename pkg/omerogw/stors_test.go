package omerogw

import (
	"context"
	"testing"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagLinkStor_FindParentsWithTags(t *testing.T) {
	gw, client := newFakeGateway(t)
	gw.on("from DatasetAnnotationLink", []any{5}, []any{8})
	s := NewTagLinkStor(client)
	ctx := context.Background()

	ids, err := s.FindParentsWithTags(ctx, omodel.DatasetType, []int64{2, 1, 2}, []int64{7}, true, omodel.ForGroup(4))
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 8}, ids)

	req := gw.last()
	assert.Equal(t, "select link.parent.id from DatasetAnnotationLink link where link.child.id in (:incl_ids)"+
		" and link.parent.id not in (select link.parent.id from DatasetAnnotationLink link where link.child.id in (:excl_ids))"+
		" group by link.parent.id having count (distinct link.child) = 2", req.Query)
	assert.Equal(t, []any{float64(1), float64(2)}, req.Params["incl_ids"])
	assert.Equal(t, []any{float64(7)}, req.Params["excl_ids"])
	assert.Equal(t, int64(4), req.Group)

	_, err = s.FindParentsWithTags(ctx, omodel.DatasetType, []int64{1}, nil, false, omodel.ForGroup(4))
	require.NoError(t, err)
	req = gw.last()
	assert.NotContains(t, req.Query, "having")
	assert.NotContains(t, req.Query, "excl_ids")
	assert.NotContains(t, req.Params, "excl_ids")
}

func TestTagLinkStor_ListTags(t *testing.T) {
	gw, client := newFakeGateway(t)
	gw.on("SELECT DISTINCT link.child.id, link.child.textValue", []any{3, "blue", 1, 4}, []any{2, "red", 1, 4})
	gw.on("select distinct link.child.id from WellAnnotationLink", []any{3}, []any{2}, []any{3})
	s := NewTagLinkStor(client)
	ctx := context.Background()

	tags, err := s.ListTagsInUse(ctx, omodel.ScreenType, omodel.ForGroup(4))
	require.NoError(t, err)
	assert.Equal(t, []omodel.Tag{
		{ID: 3, TextValue: "blue", OwnerID: 1, GroupID: 4},
		{ID: 2, TextValue: "red", OwnerID: 1, GroupID: 4},
	}, tags)
	assert.Contains(t, gw.last().Query, "FROM ScreenAnnotationLink link")

	ids, err := s.ListTagsOnParents(ctx, omodel.WellType, []int64{10, 11}, omodel.ForGroup(4))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids)
}

func TestContainerStor(t *testing.T) {
	gw, client := newFakeGateway(t)
	gw.objects["Image"] = []map[string]any{
		{"id": 7, "name": "b.tif", "owner_id": 2, "group_id": 4, "class": "Image"},
		{"id": 3, "name": "a.tif", "owner_id": 2, "group_id": 4, "class": "Image"},
	}
	gw.objects["Dataset"] = []map[string]any{{"id": 20, "name": "ds", "owner_id": 2, "group_id": 4}}
	gw.objects["Plate"] = []map[string]any{{"id": 30, "name": "plate", "owner_id": 5, "group_id": 4}}
	gw.objects["PlateAcquisition"] = []map[string]any{{"id": 40, "name": "run", "owner_id": 5, "group_id": 4}}
	gw.on("from DatasetImageLink", []any{20})
	gw.on("from Well w where w.id in", []any{50, "plate", 1, 2, "letter", "number", 5, 4})
	gw.on("from WellSample ws", []any{nil, 30})

	s := NewContainerStor(client)
	ctx := context.Background()

	images, err := s.GetContainers(ctx, omodel.ImageType, []int64{7, 3, 99}, omodel.ForGroup(4))
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "a.tif", images[0].Name)
	assert.Equal(t, omodel.ImageType, images[1].Type)

	_, err = s.GetContainer(ctx, omodel.ImageType, 99, omodel.ForGroup(4))
	assert.ErrorIs(t, err, stor.ErrNotFound)

	ancestry, err := s.GetAncestry(ctx, &images[0])
	require.NoError(t, err)
	assert.Equal(t, []omodel.Container{{Type: omodel.DatasetType, ID: 20, Name: "ds", OwnerID: 2, GroupID: 4}}, ancestry)

	well, err := s.GetContainer(ctx, omodel.WellType, 50, omodel.ForGroup(4))
	require.NoError(t, err)
	assert.Equal(t, "plate - B3", well.Name)

	parent, err := s.GetWellParent(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, omodel.PlateType, parent.Type)
	assert.Equal(t, int64(30), parent.ID)

	gw.on("from WellSample ws", []any{40, 30})
	parent, err = s.GetWellParent(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, omodel.AcquisitionType, parent.Type)

	gw.on("from WellSample ws")
	_, err = s.GetWellParent(ctx, 50)
	assert.ErrorIs(t, err, stor.ErrNotFound)
}

func TestExperimenterStor(t *testing.T) {
	gw, client := newFakeGateway(t)
	gw.on("from Experimenter e where e.id", []any{2, "alice", "Alice", "Zed", "alice@example.com"})
	gw.on("from GroupExperimenterMap m where m.child.id = :id order by m.childIndex", []any{4, true, 0}, []any{0, false, 1})
	gw.on("from ExperimenterGroup g where g.name", []any{0, "system"})
	gw.on("from ExperimenterGroup g where g.id", []any{4, "Lab"})
	gw.on("from GroupExperimenterMap m where m.parent.id", []any{2, "alice", "Alice", "Zed", "", true}, []any{3, "bob", "Bob", "Adams", "", false})

	s := NewExperimenterStor(client)
	ctx := context.Background()

	ec, err := s.GetEventContext(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), ec.GroupID)
	assert.True(t, ec.IsAdmin)
	assert.Equal(t, []int64{4}, ec.LeaderOfGroups)
	assert.Equal(t, omodel.AllGroups, gw.last().Group)

	summary, err := s.GetGroupSummary(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Lab", summary.Group.Name)
	require.Len(t, summary.Leaders, 1)
	assert.Equal(t, "alice", summary.Leaders[0].OmeName)
	require.Len(t, summary.Colleagues, 1)
	assert.Equal(t, "bob", summary.Colleagues[0].OmeName)

	_, err = s.GetExperimenterByOmeName(ctx, "nobody")
	assert.ErrorIs(t, err, stor.ErrNotFound)
}
