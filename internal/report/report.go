// Package report aggregates per-file engine results across a run into the
// mutation-info JSON document (spec.md §4.D/§6) and a human-readable run
// summary.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/hako/durafmt"

	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/engine"
	"github.com/dredd-go/dredd/internal/log"
	"github.com/dredd-go/dredd/internal/tree"
)

var (
	fgGreen   = color.New(color.FgGreen).SprintFunc()
	fgHiBlack = color.New(color.FgHiBlack).SprintFunc()
)

// Report accumulates every processed translation unit's engine.Result
// across a run. One instance is shared by every worker in the pool
// (spec.md §5), so Add is safe for concurrent use.
type Report struct {
	mu sync.Mutex

	files        []tree.FileReport
	filesTotal   int
	filesSkipped int
	mutations    int
	diagnostics  []fileDiagnostic
}

type fileDiagnostic struct {
	filename string
	astiface.Diagnostic
}

// New returns an empty Report.
func New() *Report {
	return &Report{}
}

// Add folds one translation unit's result into the run and logs it: a
// skipped file is reported immediately, a processed file's mutation count
// is reported alongside queuing its subtree for the mutation-info document.
// This uses the log package, so log.Init must be called before a run
// begins producing results.
func (r *Report) Add(res engine.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.filesTotal++
	for _, d := range res.Diagnostics {
		r.diagnostics = append(r.diagnostics, fileDiagnostic{filename: res.Filename, Diagnostic: d})
	}

	if res.Skipped {
		r.filesSkipped++
		log.FileSkipped(res.Filename)

		return
	}

	count := countIDs(res.Tree)
	r.mutations += count
	r.files = append(r.files, tree.FileReport{Filename: res.Filename, MutationTree: res.Tree})
	log.FileMutated(res.Filename, count)
}

func countIDs(t tree.IDTree) int {
	n := len(t.IDs)
	for _, c := range t.Children {
		n += countIDs(c)
	}

	return n
}

// WriteMutationInfoFile serializes the aggregated mutation-info document to
// path as JSON. Called once, after every translation unit in the run has
// been added, from the same place --mutation-info-file is read.
func (r *Report) WriteMutationInfoFile(path string) error {
	r.mu.Lock()
	doc := tree.Report{Files: append([]tree.FileReport(nil), r.files...)}
	r.mu.Unlock()

	jsonResult, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal mutation-info document: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		log.Errorf("impossible to write file: %s\n", err)

		return err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if _, err := f.Write(jsonResult); err != nil {
		log.Errorf("impossible to write file: %s\n", err)

		return err
	}

	return nil
}

// Do prints the closing summary of a run: files processed and skipped,
// total mutations found, and every diagnostic raised along the way.
func (r *Report) Do(elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.filesTotal == 0 {
		log.Infoln("\nNo files processed.")

		return
	}

	processed := fgGreen(r.filesTotal - r.filesSkipped)
	skipped := fgHiBlack(r.filesSkipped)
	mutations := fgGreen(r.mutations)

	log.Infoln("")
	log.Infof("Mutation extraction completed in %s\n", durafmt.Parse(elapsed).LimitFirstN(2).String())
	log.Infof("Files processed: %s, Skipped: %s\n", processed, skipped)
	log.Infof("Mutations found: %s\n", mutations)

	for _, fd := range r.diagnostics {
		log.Diagnostic(fd.filename, fd.Diagnostic)
	}
}
