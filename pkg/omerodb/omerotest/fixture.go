// Package omerotest builds small OMERO databases in in-memory sqlite for tests.
package omerotest

import (
	"testing"

	"github.com/materials-commons/tagsearch/pkg/omerodb"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Fixture creates rows owned by OwnerID in GroupID. Change them with As.
type Fixture struct {
	*testing.T
	DB      *gorm.DB
	Stors   *stor.Stors
	OwnerID int64
	GroupID int64
}

func NewFixture(t *testing.T) *Fixture {
	db, err := omerodb.OpenSqlite(omerodb.SqliteInMemoryDSN)
	require.NoErrorf(t, err, "OpenSqlite failed: %s", err)

	return &Fixture{
		T:     t,
		DB:    db,
		Stors: stor.NewGormStors(db),
	}
}

// As sets the owner and group for rows created afterwards.
func (f *Fixture) As(ownerID, groupID int64) *Fixture {
	f.OwnerID = ownerID
	f.GroupID = groupID
	return f
}

func (f *Fixture) create(value interface{}) {
	require.NoErrorf(f.T, f.DB.Create(value).Error, "create %T failed", value)
}

func (f *Fixture) Group(name string) omodel.ExperimenterGroup {
	g := omodel.ExperimenterGroup{Name: name}
	f.create(&g)
	return g
}

func (f *Fixture) Experimenter(omeName, firstName, lastName string) omodel.Experimenter {
	e := omodel.Experimenter{OmeName: omeName, FirstName: firstName, LastName: lastName}
	f.create(&e)
	return e
}

// AddMember adds e to g. childIndex 0 makes g the experimenter's default group.
func (f *Fixture) AddMember(g omodel.ExperimenterGroup, e omodel.Experimenter, leader bool, childIndex int) {
	f.create(&omodel.GroupExperimenterMap{ParentID: g.ID, ChildID: e.ID, Owner: leader, ChildIndex: childIndex})
}

func (f *Fixture) Tag(text string) omodel.Tag {
	a := omodel.Annotation{
		Discriminator: omodel.TagDiscriminator,
		TextValue:     text,
		OwnerID:       f.OwnerID,
		GroupID:       f.GroupID,
	}
	f.create(&a)
	return a.ToTag()
}

// Comment creates a non-tag annotation, which tag queries must ignore.
func (f *Fixture) Comment(text string) int64 {
	a := omodel.Annotation{
		Discriminator: "/basic/text/comment/",
		TextValue:     text,
		OwnerID:       f.OwnerID,
		GroupID:       f.GroupID,
	}
	f.create(&a)
	return a.ID
}

func (f *Fixture) Project(name string) omodel.Container {
	p := omodel.Project{Name: name, OwnerID: f.OwnerID, GroupID: f.GroupID}
	f.create(&p)
	return f.container(omodel.ProjectType, p.ID, name)
}

func (f *Fixture) Dataset(name string) omodel.Container {
	d := omodel.Dataset{Name: name, OwnerID: f.OwnerID, GroupID: f.GroupID}
	f.create(&d)
	return f.container(omodel.DatasetType, d.ID, name)
}

func (f *Fixture) Image(name string) omodel.Container {
	i := omodel.Image{Name: name, OwnerID: f.OwnerID, GroupID: f.GroupID}
	f.create(&i)
	return f.container(omodel.ImageType, i.ID, name)
}

func (f *Fixture) Screen(name string) omodel.Container {
	s := omodel.Screen{Name: name, OwnerID: f.OwnerID, GroupID: f.GroupID}
	f.create(&s)
	return f.container(omodel.ScreenType, s.ID, name)
}

func (f *Fixture) Plate(name string) omodel.Container {
	p := omodel.Plate{Name: name, OwnerID: f.OwnerID, GroupID: f.GroupID}
	f.create(&p)
	return f.container(omodel.PlateType, p.ID, name)
}

func (f *Fixture) Acquisition(plate omodel.Container, name string) omodel.Container {
	a := omodel.PlateAcquisition{Name: name, PlateID: plate.ID, OwnerID: f.OwnerID, GroupID: f.GroupID}
	f.create(&a)
	return f.container(omodel.AcquisitionType, a.ID, name)
}

// Well creates a well on plate and a sample for it holding image. acquisition
// may be nil.
func (f *Fixture) Well(plate omodel.Container, row, column int, image *omodel.Container, acquisition *omodel.Container) omodel.Container {
	w := omodel.Well{PlateID: plate.ID, Row: row, Column: column, OwnerID: f.OwnerID, GroupID: f.GroupID}
	f.create(&w)

	if image != nil {
		sample := omodel.WellSample{WellID: w.ID, ImageID: image.ID, OwnerID: f.OwnerID, GroupID: f.GroupID}
		if acquisition != nil {
			id := acquisition.ID
			sample.PlateAcquisitionID = &id
		}
		f.create(&sample)
	}

	return f.container(omodel.WellType, w.ID, omodel.WellName(plate.Name, row, column, "", ""))
}

func (f *Fixture) container(ct omodel.ContainerType, id int64, name string) omodel.Container {
	return omodel.Container{Type: ct, ID: id, Name: name, OwnerID: f.OwnerID, GroupID: f.GroupID}
}

// Link makes parent the parent of child: project/dataset, dataset/image or
// screen/plate.
func (f *Fixture) Link(parent, child omodel.Container) {
	var table string
	switch {
	case parent.Type == omodel.ProjectType && child.Type == omodel.DatasetType:
		table = omodel.ProjectDatasetLinkTable
	case parent.Type == omodel.DatasetType && child.Type == omodel.ImageType:
		table = omodel.DatasetImageLinkTable
	case parent.Type == omodel.ScreenType && child.Type == omodel.PlateType:
		table = omodel.ScreenPlateLinkTable
	default:
		f.Fatalf("cannot link %s to %s", parent.Type, child.Type)
	}

	link := omodel.ContainerLink{ParentID: parent.ID, ChildID: child.ID, OwnerID: f.OwnerID, GroupID: f.GroupID}
	require.NoError(f.T, f.DB.Table(table).Create(&link).Error)
}

// Annotate links each tag to c in c's group.
func (f *Fixture) Annotate(c omodel.Container, tags ...omodel.Tag) {
	for _, tag := range tags {
		f.AnnotateWithID(c, tag.ID)
	}
}

func (f *Fixture) AnnotateWithID(c omodel.Container, annotationID int64) {
	link := omodel.AnnotationLink{ParentID: c.ID, ChildID: annotationID, OwnerID: c.OwnerID, GroupID: c.GroupID}
	require.NoError(f.T, f.DB.Table(c.Type.AnnotationLinkTable()).Create(&link).Error)
}
