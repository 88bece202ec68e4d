package clog

import (
	"io"

	"github.com/apex/log"
)

// Setup installs a Handler writing to w as the apex/log default and sets the
// level from its name (debug, info, warn, error, fatal). An unknown level
// leaves info in place and is returned as an error.
func Setup(level string, w io.Writer) (*Handler, error) {
	h := NewHandler(w)
	log.SetHandler(h)
	log.SetLevel(log.InfoLevel)

	if level == "" {
		return h, nil
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return h, err
	}

	log.SetLevel(lvl)
	return h, nil
}
