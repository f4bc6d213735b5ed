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

// TestE4_ReplaceLogicalAnd reproduces spec scenario E4:
// `void foo(int x,int y){ bool z = x && y; }` wraps the LHS and RHS of `&&`
// each in a zero-arg closure with an internal static_cast<bool>, passed to
// the logical-and dispatcher.
func TestE4_ReplaceLogicalAnd(t *testing.T) {
	src := "void foo(int x,int y){ bool z = x && y; }"
	n := fixture.NewNode(astiface.KindBinaryOperator, "foo.cc", 1, 35, 1, 37)
	n.NOpcode = "&&"
	n.NType = astiface.TypeBool

	lhs := fixture.NewNode(astiface.KindDeclRefExpr, "foo.cc", 1, 33, 1, 34)
	lhs.NType = astiface.TypeInteger
	rhs := fixture.NewNode(astiface.KindDeclRefExpr, "foo.cc", 1, 38, 1, 39)
	rhs.NType = astiface.TypeInteger
	n.AddChild(lhs)
	n.AddChild(rhs)

	d, ok := catalog.BuildReplaceBinary(n, lhs, rhs, src, guard.Options{})
	if !ok {
		t.Fatalf("expected && to be a ReplaceBinary candidate")
	}
	if !d.IsLogical {
		t.Fatalf("expected && to be flagged logical")
	}

	d.SetIDs(mutation.IDRange{Lo: 0, Hi: d.VariantCount()})

	buf := rewrite.NewBuffer()
	prelude := rewrite.NewPrelude(true, false)
	catalog.RewriteReplaceBinary(buf, src, d, prelude, true)

	got, err := buf.Render(src)
	if err != nil {
		t.Fatalf("unexpected render error: %s", err)
	}

	name := catalog.BinaryDispatcherName(d)
	wantPrefix := "void foo(int x,int y){ bool z = " + name +
		"([&]() -> int { return static_cast<int>(x); }, [&]() -> int { return static_cast<int>(y); }, 0); }"
	if got != wantPrefix {
		t.Fatalf("got %q, want %q", got, wantPrefix)
	}
}

func TestBuildReplaceBinary_RejectsCommaOperator(t *testing.T) {
	n := fixture.NewNode(astiface.KindBinaryOperator, "foo.cc", 1, 1, 1, 5)
	n.NOpcode = ","
	lhs := fixture.NewNode(astiface.KindDeclRefExpr, "foo.cc", 1, 1, 1, 1)
	lhs.NType = astiface.TypeInteger
	rhs := fixture.NewNode(astiface.KindDeclRefExpr, "foo.cc", 1, 3, 1, 3)
	rhs.NType = astiface.TypeInteger

	if _, ok := catalog.BuildReplaceBinary(n, lhs, rhs, "x, y;", guard.Options{}); ok {
		t.Fatalf("expected the comma operator to be rejected")
	}
}

func TestBinaryDispatcherName_AssignmentToLValueAddsSuffix(t *testing.T) {
	d := &mutation.ReplaceBinary{
		Base:        mutation.NewBase(astiface.SourceRange{}, mutation.RangeInfo{}),
		Opcode:      "+=",
		LHSType:     astiface.TypeInteger,
		RHSType:     astiface.TypeInteger,
		LHSIsLValue: true,
	}

	name := catalog.BinaryDispatcherName(d)
	if name != "__dredd_replace_binary_operator_AddAssign_int_int_lhs_one" {
		t.Fatalf("got %q", name)
	}
}

func TestBinaryDispatcherSource_ArithmeticEnumeratesGroup(t *testing.T) {
	d := &mutation.ReplaceBinary{
		Base:    mutation.NewBase(astiface.SourceRange{}, mutation.RangeInfo{}),
		Opcode:  "+",
		LHSType: astiface.TypeInteger,
		RHSType: astiface.TypeInteger,
	}
	d.SetVariantCount(6) // -,*,/,% (4) + return arg1 + return arg2
	d.SetIDs(mutation.IDRange{Lo: 0, Hi: 6})

	source := catalog.BinaryDispatcherSource(d, true)
	for _, want := range []string{"arg1 - arg2", "arg1 * arg2", "arg1 / arg2", "arg1 % arg2", "return arg1;", "return arg2;"} {
		if !contains(source, want) {
			t.Fatalf("expected %q in dispatcher source:\n%s", want, source)
		}
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}

	return false
}
