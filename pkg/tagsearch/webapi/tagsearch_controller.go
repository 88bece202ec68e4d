package webapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/session"
	"github.com/materials-commons/tagsearch/pkg/tagsearch"
	"github.com/materials-commons/tagsearch/pkg/tagsearch/webapi/apimiddleware"
)

type TagSearchController struct {
	navigator *tagsearch.Navigator
	searcher  *tagsearch.Searcher
	validate  *validator.Validate
}

func NewTagSearchController(navigator *tagsearch.Navigator, searcher *tagsearch.Searcher) *TagSearchController {
	return &TagSearchController{
		navigator: navigator,
		searcher:  searcher,
		validate:  validator.New(),
	}
}

// Index returns the tag navigation context, or redirects when the selection
// belongs on another page.
func (c *TagSearchController) Index(ctx echo.Context) error {
	ec, sess, err := callerFrom(ctx)
	if err != nil {
		return err
	}

	result, err := c.navigator.BuildIndex(ctx.Request().Context(), tagsearch.IndexRequest{
		Path:         ctx.QueryParam("path"),
		Show:         ctx.QueryParam("show"),
		SearchQuery:  ctx.QueryParam("search_query"),
		Experimenter: ctx.QueryParam("experimenter"),
		Session:      sess.Values,
		EventContext: ec,
		CurrentURL:   ctx.Request().URL.Path,
	})
	if err != nil {
		return err
	}

	sess.Values = result.Session

	if result.RedirectURL != "" {
		return ctx.Redirect(http.StatusFound, result.RedirectURL)
	}

	return ctx.JSON(http.StatusOK, result.Context)
}

// TagImageSearch runs a search in the active group and returns navdata,
// preview, count and html.
func (c *TagSearchController) TagImageSearch(ctx echo.Context) error {
	ec, sess, err := callerFrom(ctx)
	if err != nil {
		return err
	}

	form, err := readSearchForm(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.validate.Struct(form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, tagsearch.ErrInvalidOperation.Error())
	}

	op, err := tagsearch.ParseOperation(form.Operation)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := c.searcher.Search(ctx.Request().Context(), tagsearch.SearchRequest{
		SelectedTags: tagIDs(form.SelectedTags),
		ExcludedTags: tagIDs(form.ExcludedTags),
		Operation:    op,
		HiddenTypes:  form.hiddenTypes(),
		Opts:         omodel.ForGroup(activeGroup(sess, ec)),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, result)
}

// activeGroup is the session's group, falling back to the caller's default
// group when none has been chosen.
func activeGroup(sess *session.Session, ec *omodel.EventContext) int64 {
	if sess.Values.ActiveGroup != nil && *sess.Values.ActiveGroup != 0 {
		return *sess.Values.ActiveGroup
	}

	return ec.GroupID
}

func callerFrom(ctx echo.Context) (*omodel.EventContext, *session.Session, error) {
	ec, ok := apimiddleware.EventContextFrom(ctx)
	if !ok {
		return nil, nil, echo.ErrUnauthorized
	}

	sess, ok := apimiddleware.SessionFrom(ctx)
	if !ok {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "no session")
	}

	return ec, sess, nil
}

// Health answers liveness probes.
func Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
