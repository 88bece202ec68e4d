package cmd

import (
	"github.com/labstack/echo/v4"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
	"github.com/materials-commons/tagsearch/pkg/session"
	"github.com/materials-commons/tagsearch/pkg/tagsearch"
	"github.com/materials-commons/tagsearch/pkg/tagsearch/webapi"
	"github.com/materials-commons/tagsearch/pkg/tagsearch/webapi/apimiddleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteOpts struct {
	stors       *stor.Stors
	sessions    *session.Store
	userKey     string
	usertagsURL string
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	e.GET("/healthz", webapi.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	experimenterCache := apimiddleware.NewExperimenterCache(opts.stors.ExperimenterStor)

	g := e.Group("/tagsearch")
	g.Use(apimiddleware.ExperimenterAuth(apimiddleware.ExperimenterAuthConfig{
		Keyname:         opts.userKey,
		GetEventContext: experimenterCache.GetEventContextByOmeName,
	}))
	g.Use(apimiddleware.Sessions(opts.sessions))

	searcher := tagsearch.NewSearcher(opts.stors, tagsearch.MustNewRenderer())
	navigator := tagsearch.NewNavigator(opts.stors, searcher, opts.usertagsURL)
	tagSearchController := webapi.NewTagSearchController(navigator, searcher)

	g.GET("", tagSearchController.Index)
	g.GET("/", tagSearchController.Index)
	g.POST("/tag_image_search", tagSearchController.TagImageSearch)
	g.POST("/tag_image_search/", tagSearchController.TagImageSearch)
}
