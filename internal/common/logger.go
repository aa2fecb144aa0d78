package common

// logger.go wraps logrus with the small, fixed interface the rest of this
// codebase calls into, keeping structured fields consistent (component,
// client address) without spreading logrus.Fields{} literals everywhere.

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide structured logger. Every component logs through
// this instance (or a .WithField-derived child of it) rather than building
// its own.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// WithComponent returns a logger entry tagged with the given component
// name, e.g. WithComponent("rdb").Info("loaded 12 keys").
func WithComponent(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// SetDebug toggles debug-level logging. The server starts at info level;
// cmd/main.go has no flag that calls this.
func SetDebug(on bool) {
	if on {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}
