// Package diagnostic provides an astiface.DiagnosticSink implementation.
// No other package of this module constructs one; a concrete front-end can
// report its parser-level diagnostics through it.
//
// It plays the role of log_failed_files_diagnostic_consumer from
// original_source/: a sink that remembers, per translation unit,
// whether any diagnostic reached a severity that must cause the whole file
// to be skipped (spec.md §7).
package diagnostic

import (
	"fmt"
	"sync"

	"github.com/dredd-go/dredd/internal/astiface"
)

// Sink is a concurrency-safe astiface.DiagnosticSink.
type Sink struct {
	mu    sync.Mutex
	diags []astiface.Diagnostic
}

// New creates an empty Sink.
func New() *Sink {
	return &Sink{}
}

// Report records a diagnostic.
func (s *Sink) Report(d astiface.Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diags = append(s.diags, d)
}

// Reportf is a convenience wrapper around Report for engine-raised
// diagnostics that have no parser-provided range.
func (s *Sink) Reportf(severity astiface.Severity, format string, args ...any) {
	s.Report(astiface.Diagnostic{Severity: severity, Message: fmt.Sprintf(format, args...)})
}

// Diagnostics returns a snapshot of every diagnostic reported so far.
func (s *Sink) Diagnostics() []astiface.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]astiface.Diagnostic, len(s.diags))
	copy(out, s.diags)

	return out
}

// HasBlocking reports whether any Error or Fatal diagnostic was recorded;
// per spec.md §7 this means the translation unit must be skipped, with no
// partial output written.
func (s *Sink) HasBlocking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.diags {
		if d.Severity >= astiface.SeverityError {
			return true
		}
	}

	return false
}
