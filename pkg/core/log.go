package core

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Log is the process-wide logger. Components should derive from it using WithField.
var Log = logrus.NewEntry(logrus.StandardLogger())

// ConfigureLogging points the standard logger at out (stderr when nil) and
// sets the level from the verbose flag.
func ConfigureLogging(out io.Writer, verbose bool) {
	if out == nil {
		out = os.Stderr
	}

	logger := logrus.StandardLogger()
	logger.SetOutput(out)
	logger.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat:  time.RFC3339,
		FullTimestamp:    true,
		DisableUppercase: true,
	})

	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	Log = logrus.NewEntry(logger)
	Log.Debug("Logging at debug level.")
}
