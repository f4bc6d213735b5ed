// Package astiface declares the capability set that the engine expects from
// a C/C++ parser front-end. The parser itself — libclang bindings, a
// tree-sitter grammar, whatever — is an external collaborator; this package
// only pins down the shape it must present so the rest of the module can be
// built and tested against it before any concrete parser is wired in.
package astiface

// Kind identifies the syntactic category of a Node. The engine only needs
// to distinguish kinds it has specific admissibility rules for; anything
// else is KindOther.
type Kind int

// The node kinds the guard engine and catalog reason about.
const (
	KindOther Kind = iota
	KindFunctionDecl
	KindVarDecl
	KindParamDecl
	KindCompoundStmt
	KindExprStmt
	KindNullStmt
	KindDeclStmt
	KindLabelStmt
	KindCaseStmt
	KindDefaultStmt
	KindIfStmt
	KindSwitchStmt
	KindUnaryOperator
	KindBinaryOperator
	KindCallExpr
	KindMemberExpr
	KindParenExpr
	KindInitListExpr
	KindMaterializeTemporaryExpr
	KindImplicitCastExpr
	KindConstantExpr
	KindUserDefinedLiteral
	KindDeclRefExpr
	KindLambdaExpr
	KindCXXConstructExpr
	KindDecltype
)

// TypeFamily classifies the scalar type family of an expression, which is
// all the catalog's applicability predicates need to know.
type TypeFamily int

// The scalar families recognised by the unary/binary/expr mutation families.
const (
	TypeUnsupported TypeFamily = iota
	TypeBool
	TypeInteger
	TypeUnsignedInteger
	TypeFloating
)

// IsScalar reports whether the family is one the mutation catalog can act
// on (integer, boolean or floating-point).
func (f TypeFamily) IsScalar() bool {
	return f == TypeBool || f == TypeInteger || f == TypeUnsignedInteger || f == TypeFloating
}

// ConstContext identifies a syntactic position whose sub-expression must be
// a compile-time constant, per spec.md §4.A.1 rule 3.
type ConstContext int

// The constant-expression contexts the traversal must not descend into for
// mutation purposes.
const (
	ConstContextNone ConstContext = iota
	ConstContextCaseLabel
	ConstContextArraySize
	ConstContextTemplateArgument
	ConstContextStaticAssert
	ConstContextNoexcept
	ConstContextSizeofAlignof
	ConstContextIfConstexpr
	ConstContextNewArraySize
	ConstContextStaticLocalInit
	ConstContextConstexprVar
	ConstContextConstexprFunction
)

// SourceRange is a half-open [Begin, End] pair over a single file, expressed
// as line/column pairs so it can be compared without a shared FileSet.
type SourceRange struct {
	Filename  string
	BeginLine int
	BeginCol  int
	EndLine   int
	EndCol    int
}

// Valid reports whether the range is internally consistent. An inverted
// range (end before begin) is a known compiler quirk around structured
// bindings and must be rejected rather than acted on.
func (r SourceRange) Valid() bool {
	if r.BeginLine != r.EndLine {
		return r.BeginLine < r.EndLine
	}

	return r.BeginCol <= r.EndCol
}

// MacroOrigin describes whether a range originates from ordinary source text
// or from a macro expansion, and if so where the expansion root sits.
type MacroOrigin struct {
	FromMacro        bool
	ExpansionInMain  bool
	CrossesMainFile  bool
}

// Node is the capability surface the guard engine and catalog consume for a
// single AST node. Concrete parser adapters implement this; astiface/fixture
// provides an in-memory implementation for tests.
type Node interface {
	Kind() Kind
	Range() SourceRange
	IsInMainFile() bool
	MacroOrigin() MacroOrigin

	Type() TypeFamily
	IsLValue() bool
	IsVolatile() bool
	IsBitField() bool
	IsConstantExpression() bool
	ConstContext() ConstContext

	// Parent returns the enclosing node, or nil at the translation unit root.
	Parent() Node
	// Children returns the direct children in source order.
	Children() []Node

	// Opcode returns the textual operator for Unary/Binary operator nodes
	// ("", "-", "+", "!", "~", "++", "--", "&&", "||", "==", ...).
	Opcode() string
	// IsPrefix distinguishes prefix ++/-- from postfix for unary operators.
	IsPrefix() bool

	// DeclBeginLocation returns the begin-location of a VarDecl node; used
	// by the guard to suppress `if (auto v = ...)`-style aliasing.
	DeclBeginLocation() (SourceRange, bool)

	// NumericLiteralValue returns the literal's numeric value and whether
	// the node is a numeric literal at all (used by the constant-equivalence
	// optimisation heuristic).
	NumericLiteralValue() (value float64, ok bool)
}

// TranslationUnit is the opaque per-file handle the engine operates on.
type TranslationUnit interface {
	// MainFile is the primary source path being mutated (never a header).
	MainFile() string
	// IsCPP reports whether the dialect is C++ (true) or C (false).
	IsCPP() bool
	// Root returns the translation unit's top-level declarations.
	Root() []Node
	// Sink returns the diagnostic sink for this translation unit.
	Sink() DiagnosticSink
	// Source returns the verbatim main-file text backing this unit.
	Source() string
	// PreludeMarker returns the location of a user-declared
	// `__dredd_prelude_start` marker function, if present.
	PreludeMarker() (SourceRange, bool)
}

// Frontend produces a TranslationUnit for one compilation database entry.
// The C/C++ parser itself is an external collaborator (spec.md's Non-goals):
// this engine only ever consumes the typed AST a Frontend hands it, never
// builds one. A production build links a real implementation (wrapping a
// clang-based parser or equivalent); internal/astiface/fixture's in-memory
// Node/TU trees satisfy this interface's output shape for tests without one.
type Frontend interface {
	Parse(directory, file string, args []string) (TranslationUnit, error)
}

// Severity of a diagnostic raised while processing a translation unit.
type Severity int

// The severities a parser front-end can report.
const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

// String renders a severity the way diagnostics are displayed in run output.
func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "NOTE"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is a single message raised by the parser or the engine itself.
type Diagnostic struct {
	Severity Severity
	Message  string
	Range    SourceRange
}

// DiagnosticSink collects diagnostics raised while processing one
// translation unit.
type DiagnosticSink interface {
	Report(d Diagnostic)
	Diagnostics() []Diagnostic
	// HasBlocking reports whether any diagnostic at Error or Fatal severity
	// was reported — per spec.md §7 this means the file must be skipped.
	HasBlocking() bool
}
