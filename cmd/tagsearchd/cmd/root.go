package cmd

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/materials-commons/tagsearch/pkg/clog"
	"github.com/materials-commons/tagsearch/pkg/config"
	"github.com/spf13/cobra"
)

var (
	dotenvPath string
	logHandler *clog.Handler
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tagsearchd",
	Short: "Search OMERO containers by tag",
	Long: `tagsearchd serves tag search for OMERO. It finds the images, datasets,
projects, screens, plates, wells and plate acquisitions carrying a set of tags
and builds the context for the tag navigation tree.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c := config.NewViperConfig(dotenvPath)
		if err := c.Load(); err != nil {
			return err
		}

		flags := cmd.Root().PersistentFlags()
		if err := c.BindFlag(config.KeyBackend, flags.Lookup("backend")); err != nil {
			return err
		}

		if err := c.BindFlag(config.KeyLogLevel, flags.Lookup("log-level")); err != nil {
			return err
		}

		if err := c.BindFlag(config.KeyLogFile, flags.Lookup("log-file")); err != nil {
			return err
		}

		config.SetConfig(c)

		h, err := setupLogging(c)
		logHandler = h
		return err
	},
}

// setupLogging installs the log handler at the configured level, writing to
// the configured log file or stderr. An unknown level is only warned about.
func setupLogging(c config.Configer) (*clog.Handler, error) {
	h, err := clog.Setup(c.GetKey(config.KeyLogLevel), os.Stderr)
	if err != nil {
		log.Warnf("Ignoring %s: %s", config.KeyLogLevel, err)
	}

	if path := c.GetKey(config.KeyLogFile); path != "" {
		if err := h.SetOutputFile(path); err != nil {
			return h, fmt.Errorf("opening log file %s: %w", path, err)
		}
	}

	return h, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dotenvPath, "dotenv", config.DotenvPath(), "dotenv file holding the configuration")
	rootCmd.PersistentFlags().String("backend", "", "where OMERO data is read from: db or gateway")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "append logs to this file instead of stderr")
}
