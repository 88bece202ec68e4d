package tagsearch

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
	"github.com/materials-commons/tagsearch/pkg/session"
)

// AllMembers as a user id means the tree shows every member of the group.
const AllMembers int64 = -1

// IndexTemplate names the page template the index context is meant for.
const IndexTemplate = "tagsearch/tagnav.html"

// OrphanedNode is the tree node holding images that are in no dataset.
const OrphanedNode = "orphaned-0"

// selectableKinds are the object kinds that path and show may select.
var selectableKinds = map[string]bool{
	"project":     true,
	"dataset":     true,
	"image":       true,
	"screen":      true,
	"plate":       true,
	"tag":         true,
	"acquisition": true,
	"run":         true,
	"well":        true,
}

// IndexRequest holds the query parameters, session values and caller that the
// tag navigation page is built from.
type IndexRequest struct {
	// Path is the old single-object form, e.g. project=51|dataset=502|image=607.
	// Only its last segment counts.
	Path string

	// Show selects objects, e.g. image-607|image-123.
	Show string

	SearchQuery string

	// Experimenter is the raw experimenter query parameter.
	Experimenter string

	Session      session.Values
	EventContext *omodel.EventContext
	CurrentURL   string
}

type TreeInit struct {
	InitiallyOpen   []string `json:"initially_open"`
	InitiallySelect []string `json:"initially_select"`
	Query           string   `json:"query,omitempty"`
}

// TagNavForm describes the search form: its tag choices, its operation
// choices and the initial state of its fields.
type TagNavForm struct {
	TagChoices       []omodel.Tag    `json:"tag_choices"`
	OperationChoices []Operation     `json:"operation_choices"`
	Operation        Operation       `json:"operation"`
	Views            map[string]bool `json:"views"`
}

type IndexContext struct {
	Init        TreeInit                  `json:"init"`
	MyGroups    []omodel.GroupSummary     `json:"myGroups"`
	Groups      []omodel.GroupSummary     `json:"groups"`
	ActiveGroup *omodel.ExperimenterGroup `json:"active_group"`
	ActiveUser  *omodel.Experimenter      `json:"active_user"`
	IsLeader    bool                      `json:"isLeader"`
	CurrentURL  string                    `json:"current_url"`
	Template    string                    `json:"template"`
	TagNavForm  TagNavForm                `json:"tagnav_form"`
}

// IndexResult is either a redirect or a context. Session holds the values to
// store back into the caller's session in both cases.
type IndexResult struct {
	RedirectURL string
	Context     *IndexContext
	Session     session.Values
}

// Navigator builds the context of the tag navigation page.
type Navigator struct {
	stors       *stor.Stors
	searcher    *Searcher
	usertagsURL string
}

func NewNavigator(stors *stor.Stors, searcher *Searcher, usertagsURL string) *Navigator {
	return &Navigator{stors: stors, searcher: searcher, usertagsURL: usertagsURL}
}

func (n *Navigator) BuildIndex(ctx context.Context, req IndexRequest) (*IndexResult, error) {
	ec := req.EventContext
	if ec == nil {
		return nil, errors.New("no event context for index request")
	}

	values := session.Values{UserID: req.Session.UserID, ActiveGroup: req.Session.ActiveGroup}
	init := selectionFromQuery(req.Path, req.Show)

	var (
		firstSel  *omodel.Container
		openOwner *int64
	)

	if len(init.InitiallySelect) > 0 {
		first := init.InitiallySelect[0]
		init.InitiallyOpen = []string{first}
		firstKind, firstID, _ := strings.Cut(first, "-")

		// Tags live in the user tags tree.
		if firstKind == "tag" {
			return &IndexResult{RedirectURL: n.usertagsURL + "?show=" + first, Session: values}, nil
		}

		firstSel, openOwner = n.openFirstSelection(ctx, &init, firstKind, firstID)

		if firstKind != "project" && firstKind != "screen" {
			if firstSel != nil {
				ancestry, err := n.stors.ContainerStor.GetAncestry(ctx, firstSel)
				if err != nil {
					log.Debugf("Unable to load ancestry of %s: %s", firstSel.NodeID(), err)
				}

				for _, p := range ancestry {
					init.InitiallyOpen = append([]string{p.AncestorNodeID()}, init.InitiallyOpen...)
					owner := p.OwnerID
					openOwner = &owner
				}
			}

			if kind, _, _ := strings.Cut(init.InitiallyOpen[0], "-"); kind == string(omodel.ImageType) {
				init.InitiallyOpen = append([]string{OrphanedNode}, init.InitiallyOpen...)
			}
		}
	}

	// The tree has to be loaded in the group of the selected object.
	if firstSel != nil {
		values.ActiveGroup = session.ID(firstSel.GroupID)
	}

	if req.SearchQuery != "" {
		init.Query = req.SearchQuery
	}

	activeGroup := ec.GroupID
	if values.ActiveGroup != nil && *values.ActiveGroup != 0 {
		activeGroup = *values.ActiveGroup
	}

	summary, err := n.stors.ExperimenterStor.GetGroupSummary(ctx, activeGroup)
	if err != nil {
		return nil, err
	}

	userID := resolveUserID(req.Experimenter, openOwner, values.UserID, summary, ec)
	values.UserID = &userID

	groups, err := n.myGroups(ctx, ec)
	if err != nil {
		return nil, err
	}

	tags, err := n.searcher.TagVocabulary(ctx, omodel.ForGroup(activeGroup))
	if err != nil {
		return nil, err
	}

	indexCtx := &IndexContext{
		Init:       init,
		MyGroups:   groups,
		Groups:     groups,
		IsLeader:   ec.IsLeaderOf(ec.GroupID),
		CurrentURL: req.CurrentURL,
		Template:   IndexTemplate,
		TagNavForm: newTagNavForm(tags),
	}

	if indexCtx.ActiveGroup, err = n.stors.ExperimenterStor.GetGroupByID(ctx, activeGroup); errors.Is(err, stor.ErrNotFound) {
		indexCtx.ActiveGroup = nil
	} else if err != nil {
		return nil, err
	}

	if userID != AllMembers {
		if indexCtx.ActiveUser, err = n.stors.ExperimenterStor.GetExperimenterByID(ctx, userID); errors.Is(err, stor.ErrNotFound) {
			indexCtx.ActiveUser = nil
		} else if err != nil {
			return nil, err
		}
	}

	return &IndexResult{Context: indexCtx, Session: values}, nil
}

// selectionFromQuery collects the initially selected tree nodes from the path
// and show parameters.
func selectionFromQuery(path, show string) TreeInit {
	init := TreeInit{InitiallySelect: []string{}}

	segments := strings.Split(path, "|")
	last := segments[len(segments)-1]
	if kind, _, _ := strings.Cut(last, "="); selectableKinds[kind] {
		init.InitiallySelect = append(init.InitiallySelect, strings.ReplaceAll(last, "=", "-"))
	}

	for _, segment := range strings.Split(show, "|") {
		if kind, _, _ := strings.Cut(segment, "-"); selectableKinds[kind] {
			init.InitiallySelect = append(init.InitiallySelect, strings.ReplaceAll(segment, "run", "acquisition"))
		}
	}

	return init
}

// openFirstSelection loads the first selected object across groups and returns
// it with its owner. Wells are not tree nodes, so a well is swapped for its
// plate acquisition, or its plate, and the tree opens on that instead. Ids that
// do not parse or do not exist select nothing.
func (n *Navigator) openFirstSelection(ctx context.Context, init *TreeInit, kind, rawID string) (*omodel.Container, *int64) {
	ct, ok := omodel.ParseContainerType(kind)
	if !ok {
		return nil, nil
	}

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, nil
	}

	c, err := n.stors.ContainerStor.GetContainer(ctx, ct, id, omodel.CrossGroup())
	if err != nil {
		log.Debugf("Unable to open %s-%s: %s", kind, rawID, err)
		return nil, nil
	}

	owner := c.OwnerID
	if ct != omodel.WellType {
		return c, &owner
	}

	parent, err := n.stors.ContainerStor.GetWellParent(ctx, c.ID)
	if err != nil {
		log.Debugf("Unable to find parent of well %d: %s", c.ID, err)
		return c, &owner
	}

	init.InitiallyOpen = []string{parent.NodeID()}
	init.InitiallySelect = []string{parent.NodeID()}
	return parent, &owner
}

// resolveUserID picks the experimenter whose data the tree shows. The owner of
// the opened object wins over the experimenter parameter unless the session
// shows all members. Ids that are not members of the active group fall back to
// the session user, then to the caller.
func resolveUserID(param string, openOwner, sessionUserID *int64, summary *omodel.GroupSummary, ec *omodel.EventContext) int64 {
	raw := param
	if openOwner != nil && (sessionUserID == nil || *sessionUserID != AllMembers) {
		raw = strconv.FormatInt(*openOwner, 10)
	}

	var userID *int64
	if id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
		if id == AllMembers || summary.HasMember(id) {
			userID = &id
		}
	}

	if userID != nil {
		return *userID
	}

	if sessionUserID != nil && (*sessionUserID == AllMembers || summary.HasMember(*sessionUserID)) {
		return *sessionUserID
	}

	return ec.UserID
}

// myGroups lists the groups the caller can switch to, sorted by name. Admins
// get every group except user and guest. Everyone else gets the groups they
// are a member of, less user, which every account belongs to.
func (n *Navigator) myGroups(ctx context.Context, ec *omodel.EventContext) ([]omodel.GroupSummary, error) {
	var groups []omodel.ExperimenterGroup

	if ec.IsAdmin {
		all, err := n.stors.ExperimenterStor.ListGroups(ctx)
		if err != nil {
			return nil, err
		}

		for _, g := range all {
			if g.Name != omodel.UserGroupName && g.Name != omodel.GuestGroupName {
				groups = append(groups, g)
			}
		}
	} else {
		memberOf, err := n.stors.ExperimenterStor.ListGroupsForExperimenter(ctx, ec.UserID)
		if err != nil {
			return nil, err
		}

		for _, g := range memberOf {
			if g.Name != omodel.UserGroupName {
				groups = append(groups, g)
			}
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Name) < strings.ToLower(groups[j].Name)
	})

	summaries := make([]omodel.GroupSummary, 0, len(groups))
	for _, g := range groups {
		summary, err := n.stors.ExperimenterStor.GetGroupSummary(ctx, g.ID)
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, *summary)
	}

	return summaries, nil
}

func newTagNavForm(tags []omodel.Tag) TagNavForm {
	views := make(map[string]bool, len(omodel.ContainerTypes))
	for _, ct := range omodel.ContainerTypes {
		views[ViewField(ct)] = true
	}

	return TagNavForm{
		TagChoices:       tags,
		OperationChoices: Operations,
		Operation:        DefaultOperation,
		Views:            views,
	}
}

// ViewField is the form field that turns a container type on or off in
// search results, e.g. view_image.
func ViewField(ct omodel.ContainerType) string {
	return "view_" + ct.String()
}
