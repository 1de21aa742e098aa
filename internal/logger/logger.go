package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init sets up the structured logger. JSON output in production,
// human-readable text everywhere else.
func Init(level string, production bool) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	if production {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// L returns the configured logger, initializing a default one if Init
// was never called (keeps tests and small tools working).
func L() *logrus.Logger {
	if Log == nil {
		Init("info", false)
	}
	return Log
}
