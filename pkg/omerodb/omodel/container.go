package omodel

import (
	"fmt"
	"strings"
)

// ContainerType is the key used for a container type in tree node ids
// ("image-12") and in the per-type search counts.
type ContainerType string

const (
	ImageType       ContainerType = "image"
	DatasetType     ContainerType = "dataset"
	ProjectType     ContainerType = "project"
	ScreenType      ContainerType = "screen"
	PlateType       ContainerType = "plate"
	WellType        ContainerType = "well"
	AcquisitionType ContainerType = "acquisition"
)

// ContainerTypes lists every taggable container type in the order searches
// visit them.
var ContainerTypes = []ContainerType{
	ImageType,
	DatasetType,
	ProjectType,
	ScreenType,
	PlateType,
	WellType,
	AcquisitionType,
}

var omeroClasses = map[ContainerType]string{
	ImageType:       "Image",
	DatasetType:     "Dataset",
	ProjectType:     "Project",
	ScreenType:      "Screen",
	PlateType:       "Plate",
	WellType:        "Well",
	AcquisitionType: "PlateAcquisition",
}

// ParseContainerType accepts a container key, its OMERO class name in any case,
// or "run", the old name for a plate acquisition.
func ParseContainerType(s string) (ContainerType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "run", "plateacquisition":
		return AcquisitionType, true
	}

	ct := ContainerType(s)
	if _, ok := omeroClasses[ct]; ok {
		return ct, true
	}

	return "", false
}

// OmeroClass is the OMERO model class name, e.g. PlateAcquisition.
func (t ContainerType) OmeroClass() string {
	return omeroClasses[t]
}

// TableName is the database table holding containers of this type.
func (t ContainerType) TableName() string {
	return strings.ToLower(t.OmeroClass())
}

// AnnotationLinkClass is the OMERO class linking this type to annotations.
func (t ContainerType) AnnotationLinkClass() string {
	return t.OmeroClass() + "AnnotationLink"
}

// AnnotationLinkTable is the database table backing AnnotationLinkClass.
func (t ContainerType) AnnotationLinkTable() string {
	return strings.ToLower(t.AnnotationLinkClass())
}

func (t ContainerType) String() string {
	return string(t)
}

// Container is the subset of a Project, Dataset, Image, Screen, Plate, Well or
// PlateAcquisition that tag search and tree initialization read.
type Container struct {
	Type    ContainerType `json:"type"`
	ID      int64         `json:"id"`
	Name    string        `json:"name"`
	OwnerID int64         `json:"owner_id"`
	GroupID int64         `json:"group_id"`
}

// NodeID is the tree node id for the container, e.g. "dataset-502".
func (c Container) NodeID() string {
	return NodeID(c.Type.String(), c.ID)
}

// AncestorNodeID is the id used when the container shows up as a parent in an
// ancestry chain, which is keyed by the lower-cased OMERO class.
func (c Container) AncestorNodeID() string {
	return NodeID(c.Type.TableName(), c.ID)
}

func NodeID(kind string, id int64) string {
	return fmt.Sprintf("%s-%d", kind, id)
}

// AllGroups as a ServiceOpts group runs a call across every group the caller
// can read.
const AllGroups int64 = -1

// ServiceOpts scopes a call to the object-query service.
type ServiceOpts struct {
	Group int64 `json:"group"`
}

func CrossGroup() ServiceOpts {
	return ServiceOpts{Group: AllGroups}
}

func ForGroup(groupID int64) ServiceOpts {
	return ServiceOpts{Group: groupID}
}

func (o ServiceOpts) IsCrossGroup() bool {
	return o.Group == AllGroups
}
