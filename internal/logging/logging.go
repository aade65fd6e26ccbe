package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a key=value text logger at the given level. Unknown levels
// fall back to info.
func New(level string) *logrus.Logger {
	return NewWithOutput(level, os.Stderr)
}

func NewWithOutput(level string, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Discard is a logger for tests and callers that do not care.
func Discard() *logrus.Logger {
	return NewWithOutput("panic", io.Discard)
}
