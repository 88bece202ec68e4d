package apimiddleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
)

const (
	// DefaultExperimenterKey is the header, or query parameter, naming the
	// omeName of the experimenter making a request.
	DefaultExperimenterKey = "X-OMERO-User"

	EventContextKey = "EventContext"
)

type GetEventContextFN func(ctx context.Context, omeName string) (*omodel.EventContext, error)

type ExperimenterAuthConfig struct {
	Skipper         middleware.Skipper
	Keyname         string
	GetEventContext GetEventContextFN
}

// ExperimenterAuth resolves the experimenter making the request and stores
// their event context on the echo context.
func ExperimenterAuth(config ExperimenterAuthConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}

	if config.Keyname == "" {
		config.Keyname = DefaultExperimenterKey
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			omeName, err := getExperimenterFromRequest(config.Keyname, c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			// Only an unknown experimenter is an auth failure. Backend errors
			// surface as 500s.
			ec, err := config.GetEventContext(c.Request().Context(), omeName)
			switch {
			case errors.Is(err, stor.ErrNotFound):
				return echo.ErrUnauthorized
			case err != nil:
				return fmt.Errorf("resolving experimenter '%s': %w", omeName, err)
			case ec == nil:
				return echo.ErrUnauthorized
			default:
				c.Set(EventContextKey, ec)
				return next(c)
			}
		}
	}
}

func getExperimenterFromRequest(key string, c echo.Context) (string, error) {
	if value := c.Request().Header.Get(key); value != "" {
		return value, nil
	}

	if value := c.QueryParam(key); value != "" {
		return value, nil
	}

	return "", fmt.Errorf("no experimenter '%s' as query param or header", key)
}

// EventContextFrom returns the event context stored by ExperimenterAuth.
func EventContextFrom(c echo.Context) (*omodel.EventContext, bool) {
	ec, ok := c.Get(EventContextKey).(*omodel.EventContext)
	return ec, ok && ec != nil
}
