package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger at the given level. Unknown levels fall back
// to info.
func New(level string) *logrus.Logger {
	return NewWithOutput(level, os.Stdout)
}

func NewWithOutput(level string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(out)

	return log
}

// Discard is used by tests and by components built without a logger.
func Discard() *logrus.Logger {
	return NewWithOutput("panic", io.Discard)
}
