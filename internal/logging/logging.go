// Package logging wraps logrus so callers depend on one place for
// formatter and level setup.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

var root = logrus.StandardLogger()

// Configure sets the global format and verbosity. Long-running commands
// call this once at startup.
func Configure(verbose bool, out io.Writer) {
	root.SetOutput(out)
	root.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z",
	})
	if verbose {
		root.SetLevel(logrus.DebugLevel)
	} else {
		root.SetLevel(logrus.InfoLevel)
	}
}

// Named returns an entry tagged with a component field.
func Named(component string) *logrus.Entry {
	return root.WithField("component", component)
}
