package guard_test

import (
	"testing"

	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/astiface/fixture"
	"github.com/dredd-go/dredd/internal/guard"
)

func funcDecl() *fixture.Node {
	return fixture.NewNode(astiface.KindFunctionDecl, "foo.cc", 1, 1, 1, 20)
}

func TestAdmit_RejectsOutsideMainFile(t *testing.T) {
	s := guard.NewState()
	s.EnterDecl(funcDecl())

	n := fixture.NewNode(astiface.KindBinaryOperator, "header.h", 1, 1, 1, 5)
	n.NInMainFile = false

	if guard.Admit(n, s) {
		t.Fatalf("expected a header-file node to be rejected")
	}
}

func TestAdmit_AcceptsMacroExpandedInMainFile(t *testing.T) {
	s := guard.NewState()
	s.EnterDecl(funcDecl())

	n := fixture.NewNode(astiface.KindBinaryOperator, "foo.cc", 2, 1, 2, 5)
	n.NInMainFile = false
	n.NMacro = astiface.MacroOrigin{FromMacro: true, ExpansionInMain: true}

	if !guard.Admit(n, s) {
		t.Fatalf("expected a macro node expanding wholly in the main file to be admitted")
	}
}

func TestAdmit_RejectsInvertedRange(t *testing.T) {
	s := guard.NewState()
	s.EnterDecl(funcDecl())

	n := fixture.NewNode(astiface.KindBinaryOperator, "foo.cc", 3, 10, 3, 2)

	if guard.Admit(n, s) {
		t.Fatalf("expected an inverted range to be rejected")
	}
}

func TestAdmit_RejectsConstantExpressionContext(t *testing.T) {
	s := guard.NewState()
	s.EnterDecl(funcDecl())

	n := fixture.NewNode(astiface.KindBinaryOperator, "foo.cc", 4, 1, 4, 5)
	n.NConstCtx = astiface.ConstContextArraySize

	if guard.Admit(n, s) {
		t.Fatalf("expected a node in a constant-expression context to be rejected")
	}
}

func TestAdmit_RejectsOutsideFunction(t *testing.T) {
	s := guard.NewState()

	n := fixture.NewNode(astiface.KindBinaryOperator, "foo.cc", 5, 1, 5, 5)

	if guard.Admit(n, s) {
		t.Fatalf("expected a global-scope node to be rejected")
	}
}

func TestAdmit_RejectsAliasedDeclLocation(t *testing.T) {
	s := guard.NewState()
	s.EnterDecl(funcDecl())

	decl := fixture.NewNode(astiface.KindVarDecl, "foo.cc", 6, 5, 6, 15)
	decl.NHasDeclLoc = true
	decl.NDeclRange = astiface.SourceRange{Filename: "foo.cc", BeginLine: 6, BeginCol: 5, EndLine: 6, EndCol: 5}
	s.RecordVarDecl(decl)

	cond := fixture.NewNode(astiface.KindDeclRefExpr, "foo.cc", 6, 5, 6, 5)

	if guard.Admit(cond, s) {
		t.Fatalf("expected a node aliasing a recorded var-decl begin-location to be rejected")
	}
}

func TestAdmit_RejectsUnderDecltype(t *testing.T) {
	s := guard.NewState()
	s.EnterDecl(funcDecl())

	decltype := fixture.NewNode(astiface.KindDecltype, "foo.cc", 7, 1, 7, 20)
	inner := fixture.NewNode(astiface.KindBinaryOperator, "foo.cc", 7, 10, 7, 15)
	decltype.AddChild(inner)

	if guard.Admit(inner, s) {
		t.Fatalf("expected a node beneath decltype to be rejected")
	}
}

func TestAdmit_RejectsADLArgument(t *testing.T) {
	s := guard.NewState()
	s.EnterDecl(funcDecl())

	call := fixture.NewNode(astiface.KindCallExpr, "foo.cc", 8, 1, 8, 20)
	member := fixture.NewNode(astiface.KindMemberExpr, "foo.cc", 8, 5, 8, 10)
	call.AddChild(member)

	if guard.Admit(member, s) {
		t.Fatalf("expected a direct member-call argument to an ADL call to be rejected")
	}
}

func TestAdmit_AcceptsOrdinaryCallArgument(t *testing.T) {
	s := guard.NewState()
	s.EnterDecl(funcDecl())

	call := fixture.NewNode(astiface.KindCallExpr, "foo.cc", 9, 1, 9, 20)
	arg := fixture.NewNode(astiface.KindDeclRefExpr, "foo.cc", 9, 5, 9, 6)
	arg.NType = astiface.TypeInteger
	call.AddChild(arg)

	if !guard.Admit(arg, s) {
		t.Fatalf("expected an ordinary call argument to be admitted")
	}
}

func TestAdmit_RejectsMaterializedTemporary(t *testing.T) {
	s := guard.NewState()
	s.EnterDecl(funcDecl())

	n := fixture.NewNode(astiface.KindMaterializeTemporaryExpr, "foo.cc", 10, 1, 10, 10)

	if guard.Admit(n, s) {
		t.Fatalf("expected a materialized temporary to be rejected")
	}
}

func TestSuppressSubtree_ParamDecl(t *testing.T) {
	n := fixture.NewNode(astiface.KindParamDecl, "foo.cc", 11, 1, 11, 10)

	if !guard.SuppressSubtree(n) {
		t.Fatalf("expected parameter declarations to suppress their subtree")
	}
}

func TestInFunction_TrueAcrossIntermediateVarDecls(t *testing.T) {
	s := guard.NewState()
	s.EnterDecl(funcDecl())
	s.EnterDecl(fixture.NewNode(astiface.KindVarDecl, "foo.cc", 1, 1, 1, 5))

	if !s.InFunction() {
		t.Fatalf("expected InFunction to stay true through intervening VarDecl frames")
	}
}
