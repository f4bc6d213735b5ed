// Package log provides the run-wide singleton logger: a writer installed
// once at startup (or left nil for a silent run) that every package below
// cmd/ writes through, rather than threading an io.Writer argument to each
// call site.
package log

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/dredd-go/dredd/internal/astiface"
)

var (
	fgRed     = color.New(color.FgRed).SprintFunc()
	fgYellow  = color.New(color.FgYellow).SprintFunc()
	fgHiBlack = color.New(color.FgHiBlack).SprintFunc()
	fgGreen   = color.New(color.FgGreen).SprintFunc()
)

type log struct {
	writer io.Writer
}

var mutex = &sync.Mutex{}
var instance *log

// Init installs w as the destination for every subsequent log call. A nil
// writer leaves the logger uninitialized, which makes every call below a
// no-op; this is how a --silent run stays silent without every call site
// checking a flag of its own.
func Init(w io.Writer) {
	if w == nil {
		return
	}
	if instance == nil {
		mutex.Lock()
		defer mutex.Unlock()
		if instance == nil {
			instance = &log{writer: w}
		}
	}
}

// Reset removes the current log instance, mainly for test isolation.
func Reset() {
	instance = nil
}

// Infof logs an informational line using format.
func Infof(f string, args ...any) {
	if instance == nil {
		return
	}
	instance.writef(f, args...)
}

// Infoln logs an informational line.
func Infoln(a any) {
	if instance == nil {
		return
	}
	instance.writeln(a)
}

// Errorf logs an error using format.
func Errorf(f string, args ...any) {
	if instance == nil {
		return
	}
	msg := fmt.Sprintf(f, args...)
	instance.writef("%s: %s", fgRed("ERROR"), msg)
}

// Errorln logs an error line.
func Errorln(a any) {
	if instance == nil {
		return
	}
	msg := fmt.Sprintf("%s: %s", fgRed("ERROR"), a)
	instance.writeln(msg)
}

// Diagnostic logs one diagnostic raised against filename during traversal,
// colored by severity the way Mutant colored mutant statuses.
func Diagnostic(filename string, d astiface.Diagnostic) {
	if instance == nil {
		return
	}
	label := d.Severity.String()
	switch d.Severity {
	case astiface.SeverityFatal, astiface.SeverityError:
		label = fgRed(label)
	case astiface.SeverityWarning:
		label = fgYellow(label)
	default:
		label = fgHiBlack(label)
	}
	instance.writef("%s%s %s: %s at %d:%d\n", padding(d.Severity.String()), label, filename, d.Message,
		d.Range.BeginLine, d.Range.BeginCol)
}

// FileMutated logs one successfully processed file along with how many
// mutation ids it contributed, the run-level analogue of Mutant.
func FileMutated(filename string, count int) {
	if instance == nil {
		return
	}
	status := fgGreen(fmt.Sprintf("%d mutations", count))
	if count == 0 {
		status = fgHiBlack("no mutations")
	}
	instance.writef("%s%s in %s\n", padding(""), status, filename)
}

// FileSkipped logs a translation unit that was skipped outright because of
// a blocking diagnostic.
func FileSkipped(filename string) {
	if instance == nil {
		return
	}
	instance.writef("%s%s: parse error, skipped\n", padding(""), fgRed(filename))
}

func padding(s string) string {
	const width = 12
	padLen := width - len(s)
	if padLen < 0 {
		padLen = 0
	}

	var pad string
	for i := 0; i < padLen; i++ {
		pad += " "
	}

	return pad
}

func (l *log) writef(f string, args ...any) {
	_, _ = fmt.Fprintf(instance.writer, f, args...)
}

func (l *log) writeln(a any) {
	_, _ = fmt.Fprintln(instance.writer, a)
}
