// Package fixture builds in-memory astiface trees for tests.
//
// It is not a C/C++ parser: it is a small, hand-assembled stand-in that
// plays the same role go/parser-built trees play in the teacher's own test
// suite — a deterministic fixture the guard engine and catalog can be
// exercised against without a real front-end.
package fixture

import "github.com/dredd-go/dredd/internal/astiface"

// Node is a mutable, in-memory astiface.Node.
type Node struct {
	NKind        astiface.Kind
	NRange       astiface.SourceRange
	NInMainFile  bool
	NMacro       astiface.MacroOrigin
	NType        astiface.TypeFamily
	NLValue      bool
	NVolatile    bool
	NBitField    bool
	NConstExpr   bool
	NConstCtx    astiface.ConstContext
	NParent      *Node
	NChildren    []*Node
	NOpcode      string
	NPrefix      bool
	NDeclRange   astiface.SourceRange
	NHasDeclLoc  bool
	NLiteral     float64
	NHasLiteral  bool
}

// NewNode builds a bare node of the given kind with a main-file range.
func NewNode(kind astiface.Kind, filename string, beginLine, beginCol, endLine, endCol int) *Node {
	return &Node{
		NKind:       kind,
		NInMainFile: true,
		NRange: astiface.SourceRange{
			Filename:  filename,
			BeginLine: beginLine,
			BeginCol:  beginCol,
			EndLine:   endLine,
			EndCol:    endCol,
		},
	}
}

// AddChild appends a child node, wiring up the parent pointer.
func (n *Node) AddChild(c *Node) *Node {
	c.NParent = n
	n.NChildren = append(n.NChildren, c)

	return n
}

// Kind implements astiface.Node.
func (n *Node) Kind() astiface.Kind { return n.NKind }

// Range implements astiface.Node.
func (n *Node) Range() astiface.SourceRange { return n.NRange }

// IsInMainFile implements astiface.Node.
func (n *Node) IsInMainFile() bool { return n.NInMainFile }

// MacroOrigin implements astiface.Node.
func (n *Node) MacroOrigin() astiface.MacroOrigin { return n.NMacro }

// Type implements astiface.Node.
func (n *Node) Type() astiface.TypeFamily { return n.NType }

// IsLValue implements astiface.Node.
func (n *Node) IsLValue() bool { return n.NLValue }

// IsVolatile implements astiface.Node.
func (n *Node) IsVolatile() bool { return n.NVolatile }

// IsBitField implements astiface.Node.
func (n *Node) IsBitField() bool { return n.NBitField }

// IsConstantExpression implements astiface.Node.
func (n *Node) IsConstantExpression() bool { return n.NConstExpr }

// ConstContext implements astiface.Node.
func (n *Node) ConstContext() astiface.ConstContext { return n.NConstCtx }

// Parent implements astiface.Node.
func (n *Node) Parent() astiface.Node {
	if n.NParent == nil {
		return nil
	}

	return n.NParent
}

// Children implements astiface.Node.
func (n *Node) Children() []astiface.Node {
	out := make([]astiface.Node, 0, len(n.NChildren))
	for _, c := range n.NChildren {
		out = append(out, c)
	}

	return out
}

// Opcode implements astiface.Node.
func (n *Node) Opcode() string { return n.NOpcode }

// IsPrefix implements astiface.Node.
func (n *Node) IsPrefix() bool { return n.NPrefix }

// DeclBeginLocation implements astiface.Node.
func (n *Node) DeclBeginLocation() (astiface.SourceRange, bool) {
	return n.NDeclRange, n.NHasDeclLoc
}

// NumericLiteralValue implements astiface.Node.
func (n *Node) NumericLiteralValue() (float64, bool) {
	return n.NLiteral, n.NHasLiteral
}

// Sink is a recording astiface.DiagnosticSink.
type Sink struct {
	diags []astiface.Diagnostic
}

// Report implements astiface.DiagnosticSink.
func (s *Sink) Report(d astiface.Diagnostic) { s.diags = append(s.diags, d) }

// Diagnostics implements astiface.DiagnosticSink.
func (s *Sink) Diagnostics() []astiface.Diagnostic { return s.diags }

// HasBlocking implements astiface.DiagnosticSink.
func (s *Sink) HasBlocking() bool {
	for _, d := range s.diags {
		if d.Severity >= astiface.SeverityError {
			return true
		}
	}

	return false
}

// TU is an in-memory astiface.TranslationUnit.
type TU struct {
	Filename string
	CPP      bool
	Decls    []*Node
	SrcSink  Sink
	SrcText  string
	Marker   *astiface.SourceRange
}

// MainFile implements astiface.TranslationUnit.
func (t *TU) MainFile() string { return t.Filename }

// IsCPP implements astiface.TranslationUnit.
func (t *TU) IsCPP() bool { return t.CPP }

// Root implements astiface.TranslationUnit.
func (t *TU) Root() []astiface.Node {
	out := make([]astiface.Node, 0, len(t.Decls))
	for _, d := range t.Decls {
		out = append(out, d)
	}

	return out
}

// Sink implements astiface.TranslationUnit.
func (t *TU) Sink() astiface.DiagnosticSink { return &t.SrcSink }

// Source implements astiface.TranslationUnit.
func (t *TU) Source() string { return t.SrcText }

// PreludeMarker implements astiface.TranslationUnit.
func (t *TU) PreludeMarker() (astiface.SourceRange, bool) {
	if t.Marker == nil {
		return astiface.SourceRange{}, false
	}

	return *t.Marker, true
}
