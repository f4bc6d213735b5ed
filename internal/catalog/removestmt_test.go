package catalog_test

import (
	"testing"

	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/astiface/fixture"
	"github.com/dredd-go/dredd/internal/catalog"
	"github.com/dredd-go/dredd/internal/guard"
	"github.com/dredd-go/dredd/internal/mutation"
	"github.com/dredd-go/dredd/internal/rewrite"
)

// TestE1_RemoveBasicExpressionStatement reproduces spec scenario E1:
// `void foo() { 1 + 2; }` rewrites to
// `void foo() { if (!__dredd_enabled_mutation(0)) { 1 + 2; } }`.
func TestE1_RemoveBasicExpressionStatement(t *testing.T) {
	src := "void foo() { 1 + 2; }"
	// "1 + 2" spans columns 14..19 (1-indexed, end exclusive), stopping just
	// before the `;` at column 19.
	stmt := fixture.NewNode(astiface.KindExprStmt, "foo.cc", 1, 14, 1, 19)

	d, ok := catalog.BuildRemoveStmt(stmt, src, guard.Options{})
	if !ok {
		t.Fatalf("expected the expression statement to be a RemoveStmt candidate")
	}
	d.SetIDs(mutation.IDRange{Lo: 0, Hi: 1})

	buf := rewrite.NewBuffer()
	catalog.RewriteRemoveStmt(buf, src, d, guard.Options{})

	got, err := buf.Render(src)
	if err != nil {
		t.Fatalf("unexpected render error: %s", err)
	}
	want := "void foo() { if (!__dredd_enabled_mutation(0)) { 1 + 2; } }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRewriteRemoveStmt_CoverageMode(t *testing.T) {
	src := "void foo() { 1 + 2; }"
	stmt := fixture.NewNode(astiface.KindExprStmt, "foo.cc", 1, 14, 1, 19)

	d, ok := catalog.BuildRemoveStmt(stmt, src, guard.Options{})
	if !ok {
		t.Fatalf("expected a RemoveStmt candidate")
	}
	d.SetIDs(mutation.IDRange{Lo: 3, Hi: 4})

	buf := rewrite.NewBuffer()
	catalog.RewriteRemoveStmt(buf, src, d, guard.Options{OnlyTrackCoverage: true})

	got, err := buf.Render(src)
	if err != nil {
		t.Fatalf("unexpected render error: %s", err)
	}
	want := "void foo() { __dredd_record_covered_mutants(3, 1); 1 + 2; }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildRemoveStmt_RejectsDeclStmt(t *testing.T) {
	decl := fixture.NewNode(astiface.KindDeclStmt, "foo.cc", 1, 1, 1, 10)
	if _, ok := catalog.BuildRemoveStmt(decl, "int x;", guard.Options{}); ok {
		t.Fatalf("expected a declaration statement to be rejected")
	}
}
