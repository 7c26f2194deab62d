// Package diag is the diagnostics collaborator the merge engine reports
// soft failures to. The core never logs directly and never fails hard; it
// hands the reporter a message and falls back.
package diag

import "go.uber.org/zap"

// Reporter receives diagnostics from fail-soft boundaries.
type Reporter interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type zapReporter struct {
	log *zap.SugaredLogger
}

// New wraps a zap logger as a Reporter.
func New(logger *zap.Logger) Reporter {
	return &zapReporter{log: logger.Sugar()}
}

func (r *zapReporter) Debugf(format string, args ...any) { r.log.Debugf(format, args...) }
func (r *zapReporter) Warnf(format string, args ...any)  { r.log.Warnf(format, args...) }
func (r *zapReporter) Errorf(format string, args ...any) { r.log.Errorf(format, args...) }

type nopReporter struct{}

// Nop returns a Reporter that discards everything.
func Nop() Reporter { return nopReporter{} }

func (nopReporter) Debugf(string, ...any) {}
func (nopReporter) Warnf(string, ...any)  {}
func (nopReporter) Errorf(string, ...any) {}
