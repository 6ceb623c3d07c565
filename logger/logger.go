// Package logger provides the configurable root logger shared by the dlsim
// packages.
//
// The default logger writes zerolog console output to stderr and is disabled
// under "go test" so that simulation warnings do not pollute test output.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Logger()

	if strings.HasSuffix(os.Args[0], ".test") {
		logger = zerolog.Nop()
	}
}

// SetOutput changes the output of the root logger.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set replaces the root logger.
func Set(l zerolog.Logger) {
	logger = l
}

// Disable disables logging.
func Disable() {
	logger = zerolog.Nop()
}

// Logger returns the root logger.
func Logger() zerolog.Logger {
	return logger
}
