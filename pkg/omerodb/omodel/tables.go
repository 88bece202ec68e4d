package omodel

// The structs below mirror the parts of the OMERO schema the stores read.
// Column names follow the OMERO database rather than gorm's naming defaults.

type Project struct {
	ID      int64  `gorm:"column:id;primaryKey"`
	Name    string `gorm:"column:name"`
	OwnerID int64  `gorm:"column:owner_id"`
	GroupID int64  `gorm:"column:group_id"`
}

func (Project) TableName() string { return "project" }

type Dataset struct {
	ID      int64  `gorm:"column:id;primaryKey"`
	Name    string `gorm:"column:name"`
	OwnerID int64  `gorm:"column:owner_id"`
	GroupID int64  `gorm:"column:group_id"`
}

func (Dataset) TableName() string { return "dataset" }

type Image struct {
	ID      int64  `gorm:"column:id;primaryKey"`
	Name    string `gorm:"column:name"`
	OwnerID int64  `gorm:"column:owner_id"`
	GroupID int64  `gorm:"column:group_id"`
}

func (Image) TableName() string { return "image" }

type Screen struct {
	ID      int64  `gorm:"column:id;primaryKey"`
	Name    string `gorm:"column:name"`
	OwnerID int64  `gorm:"column:owner_id"`
	GroupID int64  `gorm:"column:group_id"`
}

func (Screen) TableName() string { return "screen" }

type Plate struct {
	ID                     int64  `gorm:"column:id;primaryKey"`
	Name                   string `gorm:"column:name"`
	RowNamingConvention    string `gorm:"column:rownamingconvention"`
	ColumnNamingConvention string `gorm:"column:columnnamingconvention"`
	OwnerID                int64  `gorm:"column:owner_id"`
	GroupID                int64  `gorm:"column:group_id"`
}

func (Plate) TableName() string { return "plate" }

type Well struct {
	ID      int64 `gorm:"column:id;primaryKey"`
	PlateID int64 `gorm:"column:plate;index"`
	Row     int   `gorm:"column:row"`
	Column  int   `gorm:"column:column"`
	OwnerID int64 `gorm:"column:owner_id"`
	GroupID int64 `gorm:"column:group_id"`
}

func (Well) TableName() string { return "well" }

// WellSample ties an image to a well. PlateAcquisitionID is nil when the plate
// has no acquisitions.
type WellSample struct {
	ID                 int64  `gorm:"column:id;primaryKey"`
	WellID             int64  `gorm:"column:well;index"`
	ImageID            int64  `gorm:"column:image"`
	PlateAcquisitionID *int64 `gorm:"column:plateacquisition"`
	OwnerID            int64  `gorm:"column:owner_id"`
	GroupID            int64  `gorm:"column:group_id"`
}

func (WellSample) TableName() string { return "wellsample" }

type PlateAcquisition struct {
	ID      int64  `gorm:"column:id;primaryKey"`
	Name    string `gorm:"column:name"`
	PlateID int64  `gorm:"column:plate;index"`
	OwnerID int64  `gorm:"column:owner_id"`
	GroupID int64  `gorm:"column:group_id"`
}

func (PlateAcquisition) TableName() string { return "plateacquisition" }

// Annotation is the single table holding every annotation kind. Tags carry
// TagDiscriminator.
type Annotation struct {
	ID            int64  `gorm:"column:id;primaryKey"`
	Discriminator string `gorm:"column:discriminator;index"`
	TextValue     string `gorm:"column:textvalue"`
	Ns            string `gorm:"column:ns"`
	OwnerID       int64  `gorm:"column:owner_id"`
	GroupID       int64  `gorm:"column:group_id"`
}

func (Annotation) TableName() string { return "annotation" }

func (a Annotation) ToTag() Tag {
	return Tag{ID: a.ID, TextValue: a.TextValue, OwnerID: a.OwnerID, GroupID: a.GroupID}
}

// AnnotationLink rows live in one table per container type, see
// ContainerType.AnnotationLinkTable.
//
// Index tags are left off the link structs: gorm derives index names from the
// struct rather than the table, and the names would clash between tables.
type AnnotationLink struct {
	ID       int64 `gorm:"column:id;primaryKey"`
	ParentID int64 `gorm:"column:parent"`
	ChildID  int64 `gorm:"column:child"`
	OwnerID  int64 `gorm:"column:owner_id"`
	GroupID  int64 `gorm:"column:group_id"`
}

// ContainerLink is a parent/child link between containers, stored in one of
// the tables listed in ContainerLinkTables.
type ContainerLink struct {
	ID       int64 `gorm:"column:id;primaryKey"`
	ParentID int64 `gorm:"column:parent"`
	ChildID  int64 `gorm:"column:child"`
	OwnerID  int64 `gorm:"column:owner_id"`
	GroupID  int64 `gorm:"column:group_id"`
}

const (
	ProjectDatasetLinkTable = "projectdatasetlink"
	DatasetImageLinkTable   = "datasetimagelink"
	ScreenPlateLinkTable    = "screenplatelink"
)

var ContainerLinkTables = []string{
	ProjectDatasetLinkTable,
	DatasetImageLinkTable,
	ScreenPlateLinkTable,
}
