// Package guard implements the AST Traversal & Guard Engine (spec.md §4.A):
// it walks a translation unit depth-first, maintains the traversal state the
// admissibility rules need, and decides which nodes are even candidates for
// the mutation catalog to look at. It never constructs a mutation
// descriptor itself — that is the catalog's job — it only says yes or no.
package guard

import "github.com/dredd-go/dredd/internal/astiface"

// Options mirrors spec.md §3's Options record. Only OptimiseMutations and
// OnlyTrackCoverage affect correctness; the other two are diagnostics-only.
type Options struct {
	OptimiseMutations  bool
	OnlyTrackCoverage  bool
	DumpASTs           bool
	ShowASTNodeTypes   bool
}

// declFrame is one entry of the enclosing_decls stack (spec.md §4.A,
// "Maintains").
type declFrame struct {
	node astiface.Node
}

// State carries the traversal bookkeeping described in spec.md §4.A. It is
// built once per translation unit and threaded through the walk; it is not
// safe for concurrent use by design, since each translation unit owns one.
type State struct {
	enclosingDecls      []declFrame
	varDeclLocations     map[astiface.SourceRange]struct{}
	constantArguments    []astiface.Node
	constantSizedArrays  []astiface.Node
	staticAssertions     []astiface.Node
	preludeMarker        astiface.SourceRange
	preludeMarkerFound   bool
}

// NewState creates an empty traversal State for one translation unit.
func NewState() *State {
	return &State{varDeclLocations: make(map[astiface.SourceRange]struct{})}
}

// EnterDecl pushes a declaration onto enclosing_decls. Callers must pair it
// with a deferred LeaveDecl.
func (s *State) EnterDecl(n astiface.Node) {
	s.enclosingDecls = append(s.enclosingDecls, declFrame{node: n})
}

// LeaveDecl pops the most recently entered declaration.
func (s *State) LeaveDecl() {
	s.enclosingDecls = s.enclosingDecls[:len(s.enclosingDecls)-1]
}

// InFunction reports whether some entry of enclosing_decls is a function
// declaration, with any intervening entries being variable declarations
// (spec.md §4.A, "In a function" means...). This matches the shape of a
// local class or lambda's captured variables sitting between the function
// and an inner expression.
func (s *State) InFunction() bool {
	for i := len(s.enclosingDecls) - 1; i >= 0; i-- {
		k := s.enclosingDecls[i].node.Kind()
		if k == astiface.KindFunctionDecl {
			return true
		}
		if k != astiface.KindVarDecl {
			return false
		}
	}

	return false
}

// RecordVarDecl remembers a variable declaration's begin-location, so a
// later expression that begins at the same location (an `if (auto v = …)`
// condition aliasing its own declared name) can be suppressed (A.1 rule 9).
func (s *State) RecordVarDecl(n astiface.Node) {
	if loc, ok := n.DeclBeginLocation(); ok {
		s.varDeclLocations[loc] = struct{}{}
	}
}

// IsAliasedDeclLocation implements A.1 rule 9.
func (s *State) IsAliasedDeclLocation(rng astiface.SourceRange) bool {
	_, ok := s.varDeclLocations[rng]
	return ok
}

// AddConstantArgument records an expression that must later be rewritten to
// its compile-time-evaluated literal because its context demands a constant
// (spec.md §4.A, §4.C "Constant-rewrite set").
func (s *State) AddConstantArgument(n astiface.Node) { s.constantArguments = append(s.constantArguments, n) }

// AddConstantSizedArray is the array-size analogue of AddConstantArgument.
func (s *State) AddConstantSizedArray(n astiface.Node) {
	s.constantSizedArrays = append(s.constantSizedArrays, n)
}

// AddStaticAssertion is the static_assert-condition analogue.
func (s *State) AddStaticAssertion(n astiface.Node) { s.staticAssertions = append(s.staticAssertions, n) }

// ConstantRewrites returns every expression collected for the constant
// rewrite pass, in the order they were discovered.
func (s *State) ConstantRewrites() (arguments, sizedArrays, staticAssertions []astiface.Node) {
	return s.constantArguments, s.constantSizedArrays, s.staticAssertions
}

// SetPreludeMarker records the location at which the prelude should be
// inserted, once: either the user-declared `__dredd_prelude_start` marker,
// or (if none is ever found) the first wholly-main-file declaration.
func (s *State) SetPreludeMarker(rng astiface.SourceRange) {
	if s.preludeMarkerFound {
		return
	}
	s.preludeMarker = rng
	s.preludeMarkerFound = true
}

// PreludeMarker returns the recorded prelude insertion point, if any.
func (s *State) PreludeMarker() (astiface.SourceRange, bool) {
	return s.preludeMarker, s.preludeMarkerFound
}

// suppressedKinds are the AST kinds under which A.3 forbids descending for
// mutation purposes at all: parameter-variable declarations and the various
// array/template type-locs. astiface doesn't expose a distinct "type-loc"
// kind, so ParamDecl is the concrete marker we have for "don't mutate under
// this subtree".
var suppressedKinds = map[astiface.Kind]bool{
	astiface.KindParamDecl: true,
}

// SuppressSubtree implements A.3: whether an entire subtree rooted at n
// should not be descended into for mutation discovery.
func SuppressSubtree(n astiface.Node) bool {
	return suppressedKinds[n.Kind()]
}

// Admit implements the nine universal admissibility filters of A.1. It
// returns false (with no further explanation; rejection is silent per
// spec.md §7) whenever any filter rejects the node.
func Admit(n astiface.Node, s *State) bool {
	rng := n.Range()

	if !n.IsInMainFile() {
		origin := n.MacroOrigin()
		if !(origin.FromMacro && origin.ExpansionInMain) {
			return false
		}
	}

	if !rng.Valid() {
		return false
	}

	if n.ConstContext() != astiface.ConstContextNone {
		return false
	}

	if underDecltypeOrWrapper(n) {
		return false
	}

	if !s.InFunction() {
		return false
	}

	if affectsADL(n) {
		return false
	}

	if yieldsMaterializedTemporary(n) {
		return false
	}

	if isEnumConstantUnderConstructorCall(n) {
		return false
	}

	if s.IsAliasedDeclLocation(rng) {
		return false
	}

	return true
}

// underDecltypeOrWrapper implements A.1 rule 4: reject nodes beneath
// decltype, or that are themselves a UserDefinedLiteral or ConstantExpr
// wrapper node.
func underDecltypeOrWrapper(n astiface.Node) bool {
	if n.Kind() == astiface.KindUserDefinedLiteral || n.Kind() == astiface.KindConstantExpr {
		return true
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == astiface.KindDecltype {
			return true
		}
	}

	return false
}

// affectsADL implements A.1 rule 6: a node is rejected if its parent is a
// CallExpr and it is either an implicit conversion from an unsupported type
// or from a C++ member call, or is itself a C++ member call. The callee of
// the parent call is not inspected, so every CallExpr parent counts, not
// only calls that resolve through argument-dependent lookup.
func affectsADL(n astiface.Node) bool {
	parent := n.Parent()
	if parent == nil || parent.Kind() != astiface.KindCallExpr {
		return false
	}

	candidate := n
	if candidate.Kind() == astiface.KindImplicitCastExpr {
		children := candidate.Children()
		if len(children) != 1 {
			return false
		}
		if children[0].Kind() == astiface.KindMemberExpr || children[0].Type() == astiface.TypeUnsupported {
			return true
		}

		return false
	}

	return candidate.Kind() == astiface.KindMemberExpr
}

// yieldsMaterializedTemporary implements A.1 rule 7.
func yieldsMaterializedTemporary(n astiface.Node) bool {
	if n.Kind() == astiface.KindMaterializeTemporaryExpr {
		return true
	}
	if n.Kind() != astiface.KindMemberExpr && n.Kind() != astiface.KindCallExpr {
		return false
	}
	if !n.IsLValue() {
		return false
	}
	for _, c := range n.Children() {
		if c.Kind() == astiface.KindMaterializeTemporaryExpr {
			return true
		}
	}

	return false
}

// isEnumConstantUnderConstructorCall implements A.1 rule 8: an implicit
// cast whose sub-expression is a DeclRefExpr (of any declaration, enum
// constant or not) and that has a C++ constructor call among its ancestors
// below the nearest enclosing CallExpr.
func isEnumConstantUnderConstructorCall(n astiface.Node) bool {
	if n.Kind() != astiface.KindImplicitCastExpr {
		return false
	}
	children := n.Children()
	if len(children) != 1 || children[0].Kind() != astiface.KindDeclRefExpr {
		return false
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == astiface.KindCXXConstructExpr {
			return true
		}
		if p.Kind() == astiface.KindCallExpr {
			return false
		}
	}

	return false
}
