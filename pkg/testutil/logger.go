package testutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus logger that discards output
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
