package report_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/engine"
	"github.com/dredd-go/dredd/internal/log"
	"github.com/dredd-go/dredd/internal/report"
	"github.com/dredd-go/dredd/internal/tree"
)

func TestReport_AddAggregatesMutationCounts(t *testing.T) {
	var buf bytes.Buffer
	log.Init(&buf)
	t.Cleanup(log.Reset)

	r := report.New()
	r.Add(engine.Result{
		Filename: "a.cc",
		Tree: tree.IDTree{
			IDs: []int{0, 1},
			Children: []tree.IDTree{
				{IDs: []int{2}},
			},
		},
	})
	r.Add(engine.Result{Filename: "b.cc", Skipped: true})

	if !bytes.Contains(buf.Bytes(), []byte("a.cc")) {
		t.Fatalf("expected a.cc to be logged, got: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("b.cc")) {
		t.Fatalf("expected b.cc to be logged, got: %s", buf.String())
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "mutation-info.json")
	if err := r.WriteMutationInfoFile(path); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error reading mutation-info file: %s", err)
	}

	var doc tree.Report
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unexpected error unmarshalling mutation-info file: %s", err)
	}
	if len(doc.Files) != 1 {
		t.Fatalf("expected only the non-skipped file in the document, got %+v", doc.Files)
	}
	if doc.Files[0].Filename != "a.cc" {
		t.Fatalf("got filename %q, want %q", doc.Files[0].Filename, "a.cc")
	}
	if len(doc.Files[0].MutationTree.IDs) != 2 {
		t.Fatalf("got ids %v, want 2 entries", doc.Files[0].MutationTree.IDs)
	}
}

func TestReport_DoLogsDiagnosticsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	log.Init(&buf)
	t.Cleanup(log.Reset)

	r := report.New()
	r.Add(engine.Result{
		Filename: "bad.cc",
		Skipped:  true,
		Diagnostics: []astiface.Diagnostic{
			{Severity: astiface.SeverityError, Message: "expected ';'", Range: astiface.SourceRange{BeginLine: 3, BeginCol: 5}},
		},
	})

	r.Do(2 * time.Second)

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("bad.cc")) {
		t.Fatalf("expected the diagnostic's file to appear in the summary, got: %s", out)
	}
	if !bytes.Contains([]byte(out), []byte("expected ';'")) {
		t.Fatalf("expected the diagnostic message to appear in the summary, got: %s", out)
	}
	if !bytes.Contains([]byte(out), []byte("Mutations found")) {
		t.Fatalf("expected a mutation count line in the summary, got: %s", out)
	}
}

func TestReport_DoWithNoFilesLogsNothingToReport(t *testing.T) {
	var buf bytes.Buffer
	log.Init(&buf)
	t.Cleanup(log.Reset)

	r := report.New()
	r.Do(time.Second)

	if !bytes.Contains(buf.Bytes(), []byte("No files processed")) {
		t.Fatalf("expected the empty-run message, got: %s", buf.String())
	}
}
