// Package engine ties together the guard traversal, the mutation catalog,
// the rewriter/prelude synthesis, and the mutation tree into the
// per-translation-unit pipeline of spec.md §2: one call processes one file
// from typed AST to rewritten source plus a JSON-serializable mutation
// tree.
package engine

import (
	"fmt"

	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/catalog"
	"github.com/dredd-go/dredd/internal/guard"
	"github.com/dredd-go/dredd/internal/mutation"
	"github.com/dredd-go/dredd/internal/rewrite"
	"github.com/dredd-go/dredd/internal/tree"
)

// Result is what processing a single translation unit produces.
type Result struct {
	Filename string
	Source   string
	Tree     tree.IDTree
	// Skipped is true when the translation unit was not mutated at all
	// because the parser reported a blocking diagnostic. A repeat visit
	// rejected by the coordinator never reaches ProcessFile and produces no
	// Result.
	Skipped     bool
	Diagnostics []astiface.Diagnostic
}

// ProcessFile runs the full pipeline against one translation unit, claiming
// mutation ids from alloc as it goes. A parse-time blocking diagnostic
// (spec.md §7, "Parse error") skips the file entirely rather than emitting
// a partial rewrite.
func ProcessFile(tu astiface.TranslationUnit, opts Options, alloc tree.IDAllocator) (Result, error) {
	sink := tu.Sink()
	if sink.HasBlocking() {
		return Result{Filename: tu.MainFile(), Skipped: true, Diagnostics: sink.Diagnostics()}, nil
	}

	src := tu.Source()
	cpp := tu.IsCPP()
	state := guard.NewState()
	root := tree.New()

	t := &traversal{state: state, opts: opts.Options, src: src}
	if marker, ok := tu.PreludeMarker(); ok {
		state.SetPreludeMarker(marker)
	}
	for _, decl := range tu.Root() {
		if decl.IsInMainFile() && decl.Range().Valid() {
			state.SetPreludeMarker(decl.Range())
		}
		t.walkNode(decl, root)
	}
	root.TidyUp()

	buf := rewrite.NewBuffer()
	prelude := rewrite.NewPrelude(cpp, opts.OnlyTrackCoverage)

	tree.AssignIDs(root, alloc, func(d mutation.Descriptor) {
		switch desc := d.(type) {
		case *mutation.RemoveStmt:
			catalog.RewriteRemoveStmt(buf, src, desc, opts.Options)
		case *mutation.ReplaceUnary:
			catalog.RewriteReplaceUnary(buf, src, desc, prelude, cpp)
		case *mutation.ReplaceBinary:
			catalog.RewriteReplaceBinary(buf, src, desc, prelude, cpp)
		case *mutation.ReplaceExpr:
			catalog.RewriteReplaceExpr(buf, src, desc, prelude, cpp)
		}
	})

	freezeConstantRewrites(buf, src, state)

	if marker, ok := state.PreludeMarker(); ok {
		offset := rewrite.OffsetOf(src, marker.BeginLine, marker.BeginCol)
		buf.InsertBefore(offset, prelude.Render())
	}

	rendered, err := buf.Render(src)
	if err != nil {
		return Result{}, fmt.Errorf("rewriting %s: %w", tu.MainFile(), err)
	}

	return Result{
		Filename:    tu.MainFile(),
		Source:      rendered,
		Tree:        tree.ToIDTree(root),
		Diagnostics: sink.Diagnostics(),
	}, nil
}

// freezeConstantRewrites implements the tail of spec.md §4.C's "Constant
// rewrite set": expressions the traversal found sitting in a
// constant-expression context (so never themselves mutated) are frozen to
// their compile-time value when one is known, so the context's
// compile-time requirement survives even if a mutation applied to an
// enclosing expression would otherwise have left a non-constant textual
// shape behind.
func freezeConstantRewrites(buf *rewrite.Buffer, src string, state *guard.State) {
	args, sizedArrays, staticAssertions := state.ConstantRewrites()
	for _, group := range [][]astiface.Node{args, sizedArrays, staticAssertions} {
		for _, n := range group {
			v, ok := n.NumericLiteralValue()
			if !ok {
				continue
			}
			rng := n.Range()
			lo := rewrite.OffsetOf(src, rng.BeginLine, rng.BeginCol)
			hi := rewrite.OffsetOf(src, rng.EndLine, rng.EndCol)
			literal := fmt.Sprintf("%v", v)
			if n.Type() == astiface.TypeInteger || n.Type() == astiface.TypeUnsignedInteger {
				literal = fmt.Sprintf("%d", int64(v))
			}
			_ = buf.Replace(lo, hi, literal)
		}
	}
}
