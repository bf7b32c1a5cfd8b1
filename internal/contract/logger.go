package contract

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the structured logger used for debug tracing.
// Verbose runs log at debug level to stderr; otherwise only warnings surface.
func NewLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

// NewDiscardLogger returns a logger that drops everything, for tests and the MCP server.
func NewDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
