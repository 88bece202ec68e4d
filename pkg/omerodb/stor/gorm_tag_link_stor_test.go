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

type tagLinkFixture struct {
	*omerotest.Fixture
	red, green, blue       omodel.Tag
	img1, img2, img3, img4 omodel.Container
	otherGroupImage        omodel.Container
}

// img1: red, green     img2: red     img3: red, green, blue     img4: none
// otherGroupImage (group 2): red, green
func newTagLinkFixture(t *testing.T) *tagLinkFixture {
	f := &tagLinkFixture{Fixture: omerotest.NewFixture(t)}
	f.As(1, 1)

	f.red = f.Tag("red")
	f.green = f.Tag("green")
	f.blue = f.Tag("blue")

	f.img1 = f.Image("img1")
	f.img2 = f.Image("img2")
	f.img3 = f.Image("img3")
	f.img4 = f.Image("img4")

	f.Annotate(f.img1, f.red, f.green)
	f.Annotate(f.img2, f.red)
	f.Annotate(f.img3, f.red, f.green, f.blue)

	f.As(1, 2)
	f.otherGroupImage = f.Image("other")
	f.Annotate(f.otherGroupImage, f.red, f.green)

	return f
}

func TestGormTagLinkStor_FindParentsWithTags(t *testing.T) {
	f := newTagLinkFixture(t)
	s := stor.NewGormTagLinkStor(f.DB)
	ctx := context.Background()
	group1 := omodel.ForGroup(1)

	tests := []struct {
		name     string
		include  []int64
		exclude  []int64
		matchAll bool
		opts     omodel.ServiceOpts
		want     []int64
	}{
		{
			name:     "AND requires every include tag",
			include:  []int64{f.red.ID, f.green.ID},
			matchAll: true,
			opts:     group1,
			want:     []int64{f.img1.ID, f.img3.ID},
		},
		{
			name:     "OR matches any include tag",
			include:  []int64{f.green.ID, f.blue.ID},
			matchAll: false,
			opts:     group1,
			want:     []int64{f.img1.ID, f.img3.ID},
		},
		{
			name:     "exclude removes parents linked to an excluded tag",
			include:  []int64{f.red.ID},
			exclude:  []int64{f.blue.ID},
			matchAll: true,
			opts:     group1,
			want:     []int64{f.img1.ID, f.img2.ID},
		},
		{
			name:     "duplicate include ids count once",
			include:  []int64{f.red.ID, f.red.ID, f.green.ID},
			matchAll: true,
			opts:     group1,
			want:     []int64{f.img1.ID, f.img3.ID},
		},
		{
			name:     "cross group search sees every group",
			include:  []int64{f.red.ID, f.green.ID},
			matchAll: true,
			opts:     omodel.CrossGroup(),
			want:     []int64{f.img1.ID, f.img3.ID, f.otherGroupImage.ID},
		},
		{
			name:     "no include tags finds nothing",
			include:  nil,
			matchAll: true,
			opts:     group1,
			want:     nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ids, err := s.FindParentsWithTags(ctx, omodel.ImageType, test.include, test.exclude, test.matchAll, test.opts)
			require.NoError(t, err)
			assert.ElementsMatch(t, test.want, ids)
		})
	}
}

func TestGormTagLinkStor_FindParentsWithTagsOtherTypes(t *testing.T) {
	f := omerotest.NewFixture(t).As(1, 1)
	tag := f.Tag("assay")

	plate := f.Plate("P1")
	acquisition := f.Acquisition(plate, "Run 1")
	well := f.Well(plate, 0, 0, nil, nil)
	f.Annotate(acquisition, tag)
	f.Annotate(well, tag)

	s := stor.NewGormTagLinkStor(f.DB)
	ctx := context.Background()

	ids, err := s.FindParentsWithTags(ctx, omodel.AcquisitionType, []int64{tag.ID}, nil, true, omodel.ForGroup(1))
	require.NoError(t, err)
	assert.Equal(t, []int64{acquisition.ID}, ids)

	ids, err = s.FindParentsWithTags(ctx, omodel.WellType, []int64{tag.ID}, nil, true, omodel.ForGroup(1))
	require.NoError(t, err)
	assert.Equal(t, []int64{well.ID}, ids)

	ids, err = s.FindParentsWithTags(ctx, omodel.PlateType, []int64{tag.ID}, nil, true, omodel.ForGroup(1))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGormTagLinkStor_ListTagsOnParents(t *testing.T) {
	f := newTagLinkFixture(t)
	commentID := f.Comment("not a tag")
	f.AnnotateWithID(f.img2, commentID)

	s := stor.NewGormTagLinkStor(f.DB)

	ids, err := s.ListTagsOnParents(context.Background(), omodel.ImageType, []int64{f.img1.ID, f.img2.ID}, omodel.ForGroup(1))
	require.NoError(t, err)
	assert.Equal(t, []int64{f.red.ID, f.green.ID}, ids)

	ids, err = s.ListTagsOnParents(context.Background(), omodel.ImageType, nil, omodel.ForGroup(1))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGormTagLinkStor_ListTagsInUse(t *testing.T) {
	f := newTagLinkFixture(t)
	f.As(1, 1).Tag("unused")

	s := stor.NewGormTagLinkStor(f.DB)

	tags, err := s.ListTagsInUse(context.Background(), omodel.ImageType, omodel.ForGroup(1))
	require.NoError(t, err)

	var texts []string
	for _, tag := range tags {
		texts = append(texts, tag.TextValue)
	}
	assert.Equal(t, []string{"blue", "green", "red"}, texts)

	tags, err = s.ListTagsInUse(context.Background(), omodel.DatasetType, omodel.ForGroup(1))
	require.NoError(t, err)
	assert.Empty(t, tags)
}
