package omerogw

import (
	"fmt"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
)

// The gateway scopes every query to the request group, so none of the
// templates below filter on group themselves.

func tagsInUseHQL(ct omodel.ContainerType) string {
	return fmt.Sprintf(
		"SELECT DISTINCT link.child.id, link.child.textValue, link.child.details.owner.id, link.child.details.group.id "+
			"FROM %s link "+
			"WHERE link.child.class IS TagAnnotation "+
			"ORDER BY link.child.textValue", ct.AnnotationLinkClass())
}

// parentsWithTagsHQL builds the include/exclude query. Under matchAll the
// HAVING clause keeps only parents linked to every one of the includeCount tags.
func parentsWithTagsHQL(ct omodel.ContainerType, includeCount int, withExclude, matchAll bool) string {
	linkClass := ct.AnnotationLinkClass()
	hql := fmt.Sprintf("select link.parent.id from %s link where link.child.id in (:incl_ids)", linkClass)

	if withExclude {
		hql += fmt.Sprintf(" and link.parent.id not in "+
			"(select link.parent.id from %s link where link.child.id in (:excl_ids))", linkClass)
	}

	hql += " group by link.parent.id"
	if matchAll {
		hql += fmt.Sprintf(" having count (distinct link.child) = %d", includeCount)
	}

	return hql
}

func tagsOnParentsHQL(ct omodel.ContainerType) string {
	return fmt.Sprintf(
		"select distinct link.child.id from %s link "+
			"where link.parent.id in (:oids) and link.child.class is TagAnnotation", ct.AnnotationLinkClass())
}

const (
	wellLabelsHQL = "select w.id, w.plate.name, w.row, w.column, " +
		"w.plate.rowNamingConvention, w.plate.columnNamingConvention, " +
		"w.details.owner.id, w.details.group.id " +
		"from Well w where w.id in (:ids) order by w.id"

	acquisitionPlateHQL = "select pa.plate.id from PlateAcquisition pa where pa.id = :id"

	wellPlateHQL = "select w.plate.id from Well w where w.id = :id"

	wellSampleParentHQL = "select pa.id, ws.well.plate.id from WellSample ws " +
		"left outer join ws.plateAcquisition pa " +
		"where ws.well.id = :id order by ws.id"

	experimenterColumns = "e.id, e.omeName, e.firstName, e.lastName, e.email"

	experimenterByIDHQL = "select " + experimenterColumns + " from Experimenter e where e.id = :id"

	experimenterByOmeNameHQL = "select " + experimenterColumns + " from Experimenter e where e.omeName = :name"

	groupByIDHQL = "select g.id, g.name from ExperimenterGroup g where g.id = :id"

	groupByNameHQL = "select g.id, g.name from ExperimenterGroup g where g.name = :name"

	groupsHQL = "select g.id, g.name from ExperimenterGroup g order by g.id"

	groupsForExperimenterHQL = "select m.parent.id, m.parent.name from GroupExperimenterMap m " +
		"where m.child.id = :id order by m.parent.id"

	groupMembersHQL = "select m.child.id, m.child.omeName, m.child.firstName, m.child.lastName, m.child.email, m.owner " +
		"from GroupExperimenterMap m where m.parent.id = :id"

	membershipsHQL = "select m.parent.id, m.owner, m.childIndex from GroupExperimenterMap m " +
		"where m.child.id = :id order by m.childIndex, m.id"
)

var linkParentHQL = map[omodel.ContainerType]string{
	omodel.ImageType:   "select link.parent.id from DatasetImageLink link where link.child.id = :id order by link.id",
	omodel.DatasetType: "select link.parent.id from ProjectDatasetLink link where link.child.id = :id order by link.id",
	omodel.PlateType:   "select link.parent.id from ScreenPlateLink link where link.child.id = :id order by link.id",
}
