package view

import "github.com/sirupsen/logrus"

// Reporter receives failures of screen operations. None of them reach the user.
type Reporter interface {
	Report(op string, err error)
}

// LogReporter writes failures to a logrus logger.
type LogReporter struct {
	log logrus.FieldLogger
}

// NewLogReporter creates a Reporter backed by logger.
func NewLogReporter(logger logrus.FieldLogger) *LogReporter {
	return &LogReporter{log: logger.WithField("component", "screen")}
}

// Report logs err at error level, tagged with the failed operation.
func (r *LogReporter) Report(op string, err error) {
	r.log.WithError(err).WithField("op", op).Error("Repository operation failed")
}
