package catalog

import (
	"fmt"
	"strings"

	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/guard"
	"github.com/dredd-go/dredd/internal/mutation"
	"github.com/dredd-go/dredd/internal/rewrite"
)

// BuildReplaceExpr implements the "Expression replacement" applicability
// predicate of spec.md §4.B.4.
func BuildReplaceExpr(n astiface.Node, src string, opts guard.Options) (*mutation.ReplaceExpr, bool) {
	if !guard.CanReplaceExpr(n, opts) {
		return nil, false
	}

	rng := n.Range()
	info := mutation.NewRangeInfo(rng, sourceText(src, rng))
	d := &mutation.ReplaceExpr{
		Base:                 mutation.NewBase(rng, info),
		ExprType:             n.Type(),
		IsLValue:             n.IsLValue(),
		IsConstantExpression: n.IsConstantExpression(),
		IsLogicalAnd:         n.Kind() == astiface.KindBinaryOperator && n.Opcode() == "&&",
		IsLogicalOr:          n.Kind() == astiface.KindBinaryOperator && n.Opcode() == "||",
	}
	d.SetVariantCount(exprVariantCount(d))

	return d, true
}

// exprVariantCount enumerates the literal/unary alternatives of spec.md
// §4.B.4: !arg for boolean/integer r-values; 0/1 for non-boolean integer
// r-values; -1 for signed integers; 0.0/1.0/-1.0 for floating r-values —
// all of them only for r-values, since the dispatcher's return type is a
// reference for an l-value and a literal prvalue can't bind to it; ++arg/
// --arg for mutable l-values; plus the omit-true/omit-false variants for
// logical && / || expressions.
func exprVariantCount(d *mutation.ReplaceExpr) int {
	n := 0
	if !d.IsLValue {
		switch d.ExprType {
		case astiface.TypeBool:
			n++ // !arg
		case astiface.TypeInteger:
			n += 3 // !arg, 0, 1
			n++    // -1 (signed)
		case astiface.TypeUnsignedInteger:
			n += 3 // !arg, 0, 1
		case astiface.TypeFloating:
			n += 3 // 0.0, 1.0, -1.0
		}
	}
	if d.IsLValue {
		n += 2 // ++arg, --arg
	}
	if d.IsLogicalAnd {
		n++ // omit-true: literal false
	}
	if d.IsLogicalOr {
		n++ // omit-false: literal true
	}

	return n
}

func exprTypeTag(tf astiface.TypeFamily) string {
	return dispatcherTypeTag(tf, false, false)
}

// ExprDispatcherName synthesizes the dispatcher name for a ReplaceExpr
// descriptor (spec.md §4.B.4): a type tag plus suffixes flagging l-value
// eligibility, constant-expression status, and the logical omit variants.
func ExprDispatcherName(d *mutation.ReplaceExpr) string {
	name := "__dredd_replace_expr_" + exprTypeTag(d.ExprType)
	if d.IsLValue {
		name += "_lvalue"
	}
	if d.IsConstantExpression {
		name += "_constant"
	}
	if d.IsLogicalAnd {
		name += "_omit_true"
	}
	if d.IsLogicalOr {
		name += "_omit_false"
	}

	return name
}

// ExprDispatcherSource synthesizes the dispatcher body. The common path —
// no mutation globally enabled — returns the original argument directly
// via the `__dredd_some_mutation_enabled` fast-path flag (spec.md §4.B.4).
func ExprDispatcherSource(d *mutation.ReplaceExpr, cpp bool) string {
	exprType := typeName(d.ExprType)
	resultType := exprType
	if d.IsLValue {
		resultType += "&"
	}
	name := ExprDispatcherName(d)

	argType := exprType
	argCall := "arg()"
	if !cpp {
		argCall = "(*arg)"
	}

	var b strings.Builder
	if cpp {
		fmt.Fprintf(&b, "static %s %s(std::function<%s()> arg, int local_mutation_id) {\n", resultType, name, argType)
	} else {
		fmt.Fprintf(&b, "static %s %s(%s* arg, int local_mutation_id) {\n", resultType, name, argType)
	}
	fmt.Fprintf(&b, "  if (!__dredd_some_mutation_enabled) return %s;\n", argCall)

	offset := 0
	emit := func(text string) {
		fmt.Fprintf(&b, "  if (__dredd_enabled_mutation(local_mutation_id + %d)) return %s;\n", offset, text)
		offset++
	}

	if !d.IsLValue {
		switch d.ExprType {
		case astiface.TypeBool:
			emit("!" + argCall)
		case astiface.TypeInteger:
			emit("!" + argCall)
			emit("0")
			emit("1")
			emit("-1")
		case astiface.TypeUnsignedInteger:
			emit("!" + argCall)
			emit("0")
			emit("1")
		case astiface.TypeFloating:
			emit("0.0")
			emit("1.0")
			emit("-1.0")
		}
	}
	if d.IsLValue {
		emit("++" + argCall)
		emit("--" + argCall)
	}
	if d.IsLogicalAnd {
		emit("false")
	}
	if d.IsLogicalOr {
		emit("true")
	}

	fmt.Fprintf(&b, "  return %s;\n}\n\n", argCall)

	return b.String()
}

// RewriteReplaceExpr performs the B.4 call-site rewrite: the expression is
// wrapped with a call to its dispatcher, passing it as a capturing thunk
// (C++) with a static_cast dropped for constant expressions, or directly
// (C).
func RewriteReplaceExpr(buf *rewrite.Buffer, src string, d *mutation.ReplaceExpr, prelude *rewrite.Prelude, cpp bool) {
	prelude.AddDeclaration(ExprDispatcherSource(d, cpp))

	localID := d.IDs().Lo
	name := ExprDispatcherName(d)
	rng := d.Range()
	beginOffset := rewrite.OffsetOf(src, rng.BeginLine, rng.BeginCol)
	endOffset := rewrite.OffsetOf(src, rng.EndLine, rng.EndCol)
	exprType := typeName(d.ExprType)

	var prefix, suffix string
	switch {
	case cpp && d.IsConstantExpression:
		prefix = fmt.Sprintf("%s([&]() -> %s { return ", name, exprType)
		suffix = fmt.Sprintf("; }, %d)", localID)
	case cpp:
		prefix = fmt.Sprintf("%s([&]() -> %s { return static_cast<%s>(", name, exprType, exprType)
		suffix = fmt.Sprintf("); }, %d)", localID)
	default:
		prefix = fmt.Sprintf("%s(&(", name)
		suffix = fmt.Sprintf("), %d)", localID)
	}

	buf.InsertBefore(beginOffset, prefix)
	buf.InsertAfterToken(endOffset, suffix)
}
