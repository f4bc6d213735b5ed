package catalog

import (
	"fmt"
	"strings"

	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/guard"
	"github.com/dredd-go/dredd/internal/mutation"
	"github.com/dredd-go/dredd/internal/rewrite"
)

// BuildReplaceUnary implements the "Unary operator replacement"
// applicability predicate of spec.md §4.B.2.
func BuildReplaceUnary(n astiface.Node, src string, opts guard.Options) (*mutation.ReplaceUnary, bool) {
	if !guard.CanReplaceUnary(n, opts) {
		return nil, false
	}
	operand := unaryOperand(n)
	if operand == nil {
		return nil, false
	}

	rng := n.Range()
	info := mutation.NewRangeInfo(rng, sourceText(src, rng))
	d := &mutation.ReplaceUnary{
		Base:                        mutation.NewBase(rng, info),
		OperandRange:                operand.Range(),
		Opcode:                      n.Opcode(),
		IsPrefixOp:                  n.IsPrefix(),
		OperandType:                 operand.Type(),
		ResultType:                  n.Type(),
		OperandIsLValue:             operand.IsLValue(),
		OperandIsConstantExpression: operand.IsConstantExpression(),
		IsVolatile:                  operand.IsVolatile(),
	}

	candidates := admissibleUnaryReplacements(n.Opcode(), operand.IsLValue(), operand.Type() == astiface.TypeFloating)
	variants := len(candidates) + 1 // + the unconditional "return arg() unchanged" identity mutant
	if n.Opcode() == "!" {
		variants += 2 // literal true / literal false
	}
	d.SetVariantCount(variants)

	return d, true
}

func unaryOperand(unary astiface.Node) astiface.Node {
	children := unary.Children()
	if len(children) != 1 {
		return nil
	}

	return children[0]
}

// admissibleUnaryReplacements implements spec.md §4.B.2's "Admissible
// replacement opcodes per original opcode": prefix/postfix ++/-- only swap
// among themselves, `!`/`-`/`~` substitute among each other (floating
// operands reject `~`), and the original opcode is never offered as its
// own replacement.
func admissibleUnaryReplacements(original string, operandLValue, operandFloating bool) []string {
	if original == "++" || original == "--" {
		if !operandLValue {
			return nil
		}
		other := "--"
		if original == "--" {
			other = "++"
		}

		return []string{other}
	}

	var out []string
	for _, c := range []string{"~", "!", "-"} {
		if c == original {
			continue
		}
		if c == "~" && operandFloating {
			continue
		}
		out = append(out, c)
	}

	return out
}

func unaryOpcodeName(op string, isPrefix bool) string {
	switch op {
	case "+":
		return "Plus"
	case "-":
		return "Minus"
	case "~":
		return "Not"
	case "!":
		return "LNot"
	case "++":
		if isPrefix {
			return "PreInc"
		}

		return "PostInc"
	case "--":
		if isPrefix {
			return "PreDec"
		}

		return "PostDec"
	default:
		return "Unknown"
	}
}

// UnaryDispatcherName synthesizes the stable dispatcher-function name for a
// ReplaceUnary descriptor, grounded on util.cc's naming scheme: operator tag
// plus the (possibly volatile/reference-qualified) operand type.
func UnaryDispatcherName(d *mutation.ReplaceUnary) string {
	tag := dispatcherTypeTag(d.OperandType, d.OperandIsLValue, d.IsVolatile)

	return fmt.Sprintf("__dredd_replace_unary_operator_%s_%s", unaryOpcodeName(d.Opcode, d.IsPrefixOp), tag)
}

func unaryOperatorText(op string, isPrefix bool, arg string) string {
	if isPrefix {
		return op + arg
	}

	return arg + op
}

// UnaryDispatcherSource synthesizes the dispatcher function body (spec.md
// §4.B.2): it evaluates the captured `arg` thunk once and, for each
// admissible replacement opcode (plus the unconditional identity mutant,
// plus literal true/false for `!`), returns the corresponding alternative
// under an id-check. The fallback — no id enabled — applies the original
// operator.
func UnaryDispatcherSource(d *mutation.ReplaceUnary, cpp bool) string {
	resultType := qualifiedTypeName(d.ResultType, false, false)
	inputType := qualifiedTypeName(d.OperandType, d.OperandIsLValue, d.IsVolatile)
	name := UnaryDispatcherName(d)

	argType := inputType
	argCall := "arg()"
	if !cpp {
		argType = typeName(d.OperandType)
		argCall = "(*arg)"
	}

	var b strings.Builder
	if cpp {
		fmt.Fprintf(&b, "static %s %s(std::function<%s()> arg, int local_mutation_id) {\n", resultType, name, argType)
	} else {
		fmt.Fprintf(&b, "static %s %s(%s* arg, int local_mutation_id) {\n", resultType, name, argType)
	}

	offset := 0
	candidates := admissibleUnaryReplacements(d.Opcode, d.OperandIsLValue, d.OperandType == astiface.TypeFloating)
	for _, op := range candidates {
		fmt.Fprintf(&b, "  if (__dredd_enabled_mutation(local_mutation_id + %d)) return %s;\n",
			offset, unaryOperatorText(op, d.IsPrefixOp, argCall))
		offset++
	}
	fmt.Fprintf(&b, "  if (__dredd_enabled_mutation(local_mutation_id + %d)) return %s;\n", offset, argCall)
	offset++

	if d.Opcode == "!" {
		fmt.Fprintf(&b, "  if (__dredd_enabled_mutation(local_mutation_id + %d)) return true;\n", offset)
		offset++
		fmt.Fprintf(&b, "  if (__dredd_enabled_mutation(local_mutation_id + %d)) return false;\n", offset)
		offset++
	}

	fmt.Fprintf(&b, "  return %s;\n}\n\n", unaryOperatorText(d.Opcode, d.IsPrefixOp, argCall))

	return b.String()
}

// RewriteReplaceUnary performs the B.2 call-site rewrite: the unary
// expression's own source range is wrapped with a call to its dispatcher,
// passing the operand as a capturing thunk (C++) or a pointer (C).
func RewriteReplaceUnary(buf *rewrite.Buffer, src string, d *mutation.ReplaceUnary, prelude *rewrite.Prelude, cpp bool) {
	prelude.AddDeclaration(UnaryDispatcherSource(d, cpp))

	localID := d.IDs().Lo
	name := UnaryDispatcherName(d)
	nodeBegin := rewrite.OffsetOf(src, d.Range().BeginLine, d.Range().BeginCol)
	nodeEnd := rewrite.OffsetOf(src, d.Range().EndLine, d.Range().EndCol)
	operandBegin := rewrite.OffsetOf(src, d.OperandRange.BeginLine, d.OperandRange.BeginCol)
	operandEnd := rewrite.OffsetOf(src, d.OperandRange.EndLine, d.OperandRange.EndCol)

	inputType := qualifiedTypeName(d.OperandType, d.OperandIsLValue, d.IsVolatile)

	var prefix, suffix string
	if cpp {
		if d.OperandIsConstantExpression {
			prefix = fmt.Sprintf("%s([&]() -> %s { return ", name, inputType)
		} else {
			prefix = fmt.Sprintf("%s([&]() -> %s { return static_cast<%s>(", name, inputType, inputType)
		}
		suffix = fmt.Sprintf("; }, %d)", localID)
		if !d.OperandIsConstantExpression {
			suffix = ")" + suffix
		}
	} else {
		prefix = fmt.Sprintf("%s(&(", name)
		suffix = fmt.Sprintf("), %d)", localID)
	}

	// The operator token itself sits either before the operand (prefix) or
	// after it (postfix); that gap is swallowed into the dispatcher call
	// rather than left in the rewritten text.
	if operandBegin > nodeBegin {
		_ = buf.Replace(nodeBegin, operandBegin, prefix)
	} else {
		buf.InsertBefore(nodeBegin, prefix)
	}
	if nodeEnd > operandEnd {
		_ = buf.Replace(operandEnd, nodeEnd, suffix)
	} else {
		buf.InsertAfterToken(nodeEnd, suffix)
	}
}
