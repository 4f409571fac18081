// Package logging configures the process-wide logrus logger and hands out
// per-component entries.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

var base = logrus.New()

// Configure sets the level ("debug", "info", ...) and format ("text" or
// "json") of every logger handed out by NewLogger.
func Configure(level, format string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	base.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q: want text or json", format)
	}
	return nil
}

// SetOutput redirects all log output. Useful for testing.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// NewLogger returns an entry tagged with the component name.
func NewLogger(component string) *logrus.Entry {
	return base.WithField("component", component)
}
