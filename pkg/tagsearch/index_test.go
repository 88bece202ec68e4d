package tagsearch

import (
	"context"
	"fmt"
	"testing"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omerotest"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionFromQuery(t *testing.T) {
	tests := []struct {
		name string
		path string
		show string
		want []string
	}{
		{name: "last path segment", path: "project=51|dataset=502|image=607", want: []string{"image-607"}},
		{name: "unknown path kind", path: "project=51|roi=3", want: []string{}},
		{name: "show list", show: "image-607|image-123|roi-4", want: []string{"image-607", "image-123"}},
		{name: "run becomes acquisition", show: "run-12", want: []string{"acquisition-12"}},
		{name: "path before show", path: "well=3", show: "plate-2", want: []string{"well-3", "plate-2"}},
		{name: "nothing", want: []string{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			init := selectionFromQuery(test.path, test.show)
			assert.Equal(t, test.want, init.InitiallySelect)
		})
	}
}

func TestResolveUserID(t *testing.T) {
	summary := &omodel.GroupSummary{
		Leaders:    []omodel.Experimenter{{ID: 2}},
		Colleagues: []omodel.Experimenter{{ID: 3}},
	}
	ec := &omodel.EventContext{UserID: 2}
	id := session.ID

	tests := []struct {
		name      string
		param     string
		openOwner *int64
		sessionID *int64
		want      int64
	}{
		{name: "member from param", param: "3", want: 3},
		{name: "all members from param", param: "-1", want: AllMembers},
		{name: "not a number", param: "bob", want: 2},
		{name: "non member falls back to session", param: "9", sessionID: id(3), want: 3},
		{name: "non member session falls back to caller", param: "9", sessionID: id(9), want: 2},
		{name: "session all members kept", sessionID: id(AllMembers), want: AllMembers},
		{name: "owner of opened object wins", param: "2", openOwner: id(3), want: 3},
		{name: "owner ignored when showing all members", param: "", openOwner: id(3), sessionID: id(AllMembers), want: AllMembers},
		{name: "owner outside group", openOwner: id(7), want: 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := resolveUserID(test.param, test.openOwner, test.sessionID, summary, ec)
			assert.Equal(t, test.want, got)
		})
	}
}

type indexFixture struct {
	*omerotest.Fixture
	navigator *Navigator

	system, user, guest, lab, alpha omodel.ExperimenterGroup
	root, alice, bob, carol         omodel.Experimenter

	project, dataset, image, orphan omodel.Container
	screen, plate, acquisition      omodel.Container
	well, plainWell, emptyWell      omodel.Container
	labelled                        omodel.Tag
}

func newIndexFixture(t *testing.T) *indexFixture {
	f := &indexFixture{Fixture: omerotest.NewFixture(t)}

	f.system = f.Group(omodel.SystemGroupName)
	f.user = f.Group(omodel.UserGroupName)
	f.guest = f.Group(omodel.GuestGroupName)
	f.lab = f.Group("lab")
	f.alpha = f.Group("Alpha")

	f.root = f.Experimenter("root", "Root", "Admin")
	f.alice = f.Experimenter("alice", "Alice", "Zed")
	f.bob = f.Experimenter("bob", "Bob", "Adams")
	f.carol = f.Experimenter("carol", "Carol", "Baker")

	f.AddMember(f.system, f.root, false, 0)
	f.AddMember(f.user, f.root, false, 1)
	f.AddMember(f.lab, f.alice, true, 0)
	f.AddMember(f.user, f.alice, false, 1)
	f.AddMember(f.alpha, f.alice, false, 2)
	f.AddMember(f.lab, f.bob, false, 0)
	f.AddMember(f.alpha, f.carol, false, 0)

	f.As(f.bob.ID, f.lab.ID)
	f.project = f.Project("proj")
	f.dataset = f.Dataset("ds")
	f.image = f.Image("img")
	f.Link(f.project, f.dataset)
	f.Link(f.dataset, f.image)

	f.labelled = f.Tag("labelled")
	f.Annotate(f.image, f.labelled)

	f.As(f.carol.ID, f.alpha.ID)
	f.orphan = f.Image("orphan")
	f.screen = f.Screen("screen")
	f.plate = f.Plate("plate")
	f.Link(f.screen, f.plate)
	f.acquisition = f.Acquisition(f.plate, "run")
	field := f.Image("field")
	f.well = f.Well(f.plate, 0, 0, &field, &f.acquisition)
	f.plainWell = f.Well(f.plate, 0, 1, &field, nil)
	f.emptyWell = f.Well(f.plate, 0, 2, nil, nil)

	searcher := NewSearcher(f.Stors, MustNewRenderer())
	f.navigator = NewNavigator(f.Stors, searcher, "/webclient/usertags/")
	return f
}

func (f *indexFixture) eventContext(e omodel.Experimenter) *omodel.EventContext {
	ec, err := f.Stors.ExperimenterStor.GetEventContext(context.Background(), e.ID)
	require.NoError(f.T, err)
	return ec
}

func TestNavigator_BuildIndexOpensAncestry(t *testing.T) {
	f := newIndexFixture(t)

	result, err := f.navigator.BuildIndex(context.Background(), IndexRequest{
		Show:         f.image.NodeID(),
		EventContext: f.eventContext(f.alice),
		CurrentURL:   "/tagsearch/",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Context)

	init := result.Context.Init
	assert.Equal(t, []string{"project-1", "dataset-1", "image-1"}, init.InitiallyOpen)
	assert.Equal(t, []string{"image-1"}, init.InitiallySelect)

	// The tree opened on bob's image, so bob is the active user.
	assert.Equal(t, f.bob.ID, *result.Session.UserID)
	assert.Equal(t, f.lab.ID, *result.Session.ActiveGroup)
	assert.Equal(t, "bob", result.Context.ActiveUser.OmeName)
	assert.Equal(t, "lab", result.Context.ActiveGroup.Name)
	assert.True(t, result.Context.IsLeader)
	assert.Equal(t, "/tagsearch/", result.Context.CurrentURL)
	assert.Equal(t, IndexTemplate, result.Context.Template)

	form := result.Context.TagNavForm
	require.Len(t, form.TagChoices, 1)
	assert.Equal(t, "labelled", form.TagChoices[0].TextValue)
	assert.Equal(t, OperationAnd, form.Operation)
	assert.True(t, form.Views["view_acquisition"])
}

func TestNavigator_BuildIndexOrphanedImageSwitchesGroup(t *testing.T) {
	f := newIndexFixture(t)

	result, err := f.navigator.BuildIndex(context.Background(), IndexRequest{
		Path:         fmt.Sprintf("dataset=9|image=%d", f.orphan.ID),
		EventContext: f.eventContext(f.alice),
		Session:      session.Values{ActiveGroup: session.ID(f.lab.ID)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{OrphanedNode, f.orphan.NodeID()}, result.Context.Init.InitiallyOpen)
	assert.Equal(t, f.alpha.ID, *result.Session.ActiveGroup)
	assert.Equal(t, f.carol.ID, *result.Session.UserID)
	assert.Empty(t, result.Context.TagNavForm.TagChoices)
}

func TestNavigator_BuildIndexWells(t *testing.T) {
	f := newIndexFixture(t)
	ec := f.eventContext(f.alice)
	ctx := context.Background()

	result, err := f.navigator.BuildIndex(ctx, IndexRequest{Show: f.well.NodeID(), EventContext: ec})
	require.NoError(t, err)
	assert.Equal(t, []string{"screen-1", "plate-1", "acquisition-1"}, result.Context.Init.InitiallyOpen)
	assert.Equal(t, []string{"acquisition-1"}, result.Context.Init.InitiallySelect)

	result, err = f.navigator.BuildIndex(ctx, IndexRequest{Show: f.plainWell.NodeID(), EventContext: ec})
	require.NoError(t, err)
	assert.Equal(t, []string{"screen-1", "plate-1"}, result.Context.Init.InitiallyOpen)
	assert.Equal(t, []string{"plate-1"}, result.Context.Init.InitiallySelect)

	result, err = f.navigator.BuildIndex(ctx, IndexRequest{Show: f.emptyWell.NodeID(), EventContext: ec})
	require.NoError(t, err)
	assert.Equal(t, []string{"screen-1", "plate-1", f.emptyWell.NodeID()}, result.Context.Init.InitiallyOpen)
}

func TestNavigator_BuildIndexProjectsDoNotOpenParents(t *testing.T) {
	f := newIndexFixture(t)

	result, err := f.navigator.BuildIndex(context.Background(), IndexRequest{
		Show:         f.project.NodeID() + "|" + f.dataset.NodeID(),
		EventContext: f.eventContext(f.bob),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"project-1"}, result.Context.Init.InitiallyOpen)
	assert.Equal(t, []string{"project-1", "dataset-1"}, result.Context.Init.InitiallySelect)
}

func TestNavigator_BuildIndexInvalidSelection(t *testing.T) {
	f := newIndexFixture(t)
	ec := f.eventContext(f.bob)

	result, err := f.navigator.BuildIndex(context.Background(), IndexRequest{
		Show:         "dataset-abc",
		SearchQuery:  "cells",
		Experimenter: "-1",
		EventContext: ec,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"dataset-abc"}, result.Context.Init.InitiallyOpen)
	assert.Equal(t, "cells", result.Context.Init.Query)
	assert.Nil(t, result.Session.ActiveGroup)
	assert.Equal(t, AllMembers, *result.Session.UserID)
	assert.Nil(t, result.Context.ActiveUser)

	result, err = f.navigator.BuildIndex(context.Background(), IndexRequest{Show: "image-999", EventContext: ec})
	require.NoError(t, err)
	assert.Equal(t, []string{OrphanedNode, "image-999"}, result.Context.Init.InitiallyOpen)
	assert.Equal(t, f.bob.ID, *result.Session.UserID)
}

func TestNavigator_BuildIndexRedirectsTags(t *testing.T) {
	f := newIndexFixture(t)

	result, err := f.navigator.BuildIndex(context.Background(), IndexRequest{
		Show:         "tag-5|image-1",
		EventContext: f.eventContext(f.bob),
	})
	require.NoError(t, err)
	assert.Equal(t, "/webclient/usertags/?show=tag-5", result.RedirectURL)
	assert.Nil(t, result.Context)
}

func TestNavigator_BuildIndexGroups(t *testing.T) {
	f := newIndexFixture(t)
	ctx := context.Background()

	result, err := f.navigator.BuildIndex(ctx, IndexRequest{EventContext: f.eventContext(f.root)})
	require.NoError(t, err)

	var names []string
	for _, g := range result.Context.MyGroups {
		names = append(names, g.Group.Name)
	}
	assert.Equal(t, []string{"Alpha", "lab", "system"}, names)
	assert.Nil(t, result.Context.Init.InitiallyOpen)
	assert.Equal(t, f.root.ID, *result.Session.UserID)

	result, err = f.navigator.BuildIndex(ctx, IndexRequest{EventContext: f.eventContext(f.alice)})
	require.NoError(t, err)

	names = nil
	for _, g := range result.Context.Groups {
		names = append(names, g.Group.Name)
	}
	assert.Equal(t, []string{"Alpha", "lab"}, names)
	assert.Equal(t, names, myGroupNames(result.Context))
	assert.NotContains(t, names, omodel.UserGroupName)

	lab := result.Context.Groups[1]
	require.Len(t, lab.Leaders, 1)
	assert.Equal(t, f.alice.ID, lab.Leaders[0].ID)
	require.Len(t, lab.Colleagues, 1)
	assert.Equal(t, f.bob.ID, lab.Colleagues[0].ID)
}

func myGroupNames(indexCtx *IndexContext) []string {
	var names []string
	for _, g := range indexCtx.MyGroups {
		names = append(names, g.Group.Name)
	}

	return names
}
