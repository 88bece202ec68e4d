package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/materials-commons/tagsearch/pkg/config"
	"github.com/materials-commons/tagsearch/pkg/session"
	"github.com/materials-commons/tagsearch/pkg/tagsearch/webapi/apimiddleware"
	"github.com/spf13/cobra"
)

const (
	defaultPort              = "4080"
	defaultUsertagsURL       = "/webclient/usertags/"
	defaultSessionTTLMinutes = 120
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tag search HTTP server",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if c, ok := config.GetConfig().(*config.ViperConfig); ok {
			return c.BindFlag(config.KeyPort, cmd.Flags().Lookup("port"))
		}

		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		c := config.GetConfig()
		stors := mustCreateStors(c)

		ttl := time.Duration(c.GetIntKeyWithDefault(config.KeySessionTTLMinutes, defaultSessionTTLMinutes)) * time.Minute
		sessions := session.NewStore(ttl)
		done := make(chan struct{})
		go sessions.SweepEvery(time.Minute, done)

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		setupRoutes(e, RouteOpts{
			stors:       stors,
			sessions:    sessions,
			userKey:     c.GetKeyWithDefault(config.KeyUserKey, apimiddleware.DefaultExperimenterKey),
			usertagsURL: c.GetKeyWithDefault(config.KeyUsertagsURL, defaultUsertagsURL),
		})

		port := c.GetKeyWithDefault(config.KeyPort, defaultPort)
		log.Infof("tagsearchd listening on port %s", port)

		go func() {
			if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Unable to start server: %v", err)
			}
		}()

		stopOnSignal(e)
		close(done)

		if logHandler != nil {
			logHandler.Close()
		}
	},
}

func stopOnSignal(e *echo.Echo) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	log.Infof("Got %s signal, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown failed: %s", err)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "port to listen on (default "+defaultPort+")")
}
