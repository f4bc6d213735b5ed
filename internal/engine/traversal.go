package engine

import (
	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/catalog"
	"github.com/dredd-go/dredd/internal/guard"
	"github.com/dredd-go/dredd/internal/tree"
)

// traversal carries the per-file state the walk needs alongside the guard
// engine's own State: the source text (for building descriptors) and the
// run's Options.
type traversal struct {
	state *guard.State
	opts  guard.Options
	src   string
}

// walkNode implements the depth-first walk of spec.md §4.A: it enters/
// leaves declaration frames, opens a new mutation-tree scope at every
// compound statement, and tries each mutation family's applicability
// predicate at every admissible node before recursing into its children.
func (t *traversal) walkNode(n astiface.Node, scope *tree.Node) {
	if n == nil || guard.SuppressSubtree(n) {
		return
	}

	switch n.Kind() {
	case astiface.KindFunctionDecl:
		t.state.EnterDecl(n)
		defer t.state.LeaveDecl()
	case astiface.KindVarDecl:
		t.state.EnterDecl(n)
		defer t.state.LeaveDecl()
		t.state.RecordVarDecl(n)
	case astiface.KindCompoundStmt:
		child := scope.AddChild(tree.New())
		t.walkCompound(n, child)

		return
	}

	if n.ConstContext() != astiface.ConstContextNone {
		t.recordConstantContext(n)
	}

	if guard.Admit(n, t.state) {
		t.tryBuildExprMutation(n, scope)
	}

	for _, c := range n.Children() {
		t.walkNode(c, scope)
	}
}

// walkCompound handles the statement-level RemoveStmt family, evaluated
// once per direct child of a compound statement (spec.md §4.A.2, "Statement
// removal"), then continues the ordinary walk into each statement for
// nested expression-level mutations. Each sub-statement gets its own child
// tree scope, so siblings land in sibling subtrees rather than sharing one
// node's descriptor set — otherwise every statement's mutations (and a
// RemoveStmt alongside its own inner expression mutations) would be
// reported as mutually exclusive, which spec.md §3 explicitly rules out
// for siblings.
func (t *traversal) walkCompound(compound astiface.Node, scope *tree.Node) {
	for _, stmt := range compound.Children() {
		stmtScope := scope.AddChild(tree.New())
		if guard.Admit(stmt, t.state) && guard.CanRemoveStmt(stmt, t.opts) {
			if d, ok := catalog.BuildRemoveStmt(stmt, t.src, t.opts); ok {
				stmtScope.AddMutation(d)
			}
		}
		t.walkNode(stmt, stmtScope)
	}
}

// tryBuildExprMutation applies the operator-specific families first
// (ReplaceUnary/ReplaceBinary), falling back to the general ReplaceExpr
// family for any other scalar-or-binary-result expression (spec.md
// §4.B.2-4.B.4). A node that fits no family's predicate is simply left
// alone; its children are still walked.
func (t *traversal) tryBuildExprMutation(n astiface.Node, scope *tree.Node) {
	switch n.Kind() {
	case astiface.KindUnaryOperator:
		if d, ok := catalog.BuildReplaceUnary(n, t.src, t.opts); ok {
			scope.AddMutation(d)

			return
		}
	case astiface.KindBinaryOperator:
		children := n.Children()
		if len(children) == 2 {
			if d, ok := catalog.BuildReplaceBinary(n, children[0], children[1], t.src, t.opts); ok {
				scope.AddMutation(d)

				return
			}
		}
	}

	if d, ok := catalog.BuildReplaceExpr(n, t.src, t.opts); ok {
		scope.AddMutation(d)
	}
}

// recordConstantContext feeds the freezeConstantRewrites tail pass: a node
// marking a constant-expression context root is bucketed by the kind of
// context it roots, mirroring spec.md §4.C's three collections.
func (t *traversal) recordConstantContext(n astiface.Node) {
	switch n.ConstContext() {
	case astiface.ConstContextArraySize, astiface.ConstContextNewArraySize:
		t.state.AddConstantSizedArray(n)
	case astiface.ConstContextStaticAssert:
		t.state.AddStaticAssertion(n)
	default:
		t.state.AddConstantArgument(n)
	}
}
