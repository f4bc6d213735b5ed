package catalog

import (
	"fmt"
	"strings"

	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/guard"
	"github.com/dredd-go/dredd/internal/mutation"
	"github.com/dredd-go/dredd/internal/rewrite"
)

var (
	arithmeticOps = []string{"+", "-", "*", "/", "%"}
	comparisonOps = []string{"==", "!=", "<", "<=", ">", ">="}
	logicalOps    = []string{"&&", "||"}
	assignmentOps = []string{"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>="}
)

// BuildReplaceBinary implements the "Binary operator replacement"
// applicability predicate of spec.md §4.B.3.
func BuildReplaceBinary(n, lhs, rhs astiface.Node, src string, opts guard.Options) (*mutation.ReplaceBinary, bool) {
	if !guard.CanReplaceBinary(n, lhs, rhs, opts) {
		return nil, false
	}

	rng := n.Range()
	info := mutation.NewRangeInfo(rng, sourceText(src, rng))
	op := n.Opcode()
	d := &mutation.ReplaceBinary{
		Base:          mutation.NewBase(rng, info),
		LHSRange:      lhs.Range(),
		RHSRange:      rhs.Range(),
		Opcode:        op,
		LHSType:       lhs.Type(),
		RHSType:       rhs.Type(),
		ResultType:    n.Type(),
		IsLogical:     op == "&&" || op == "||",
		LHSIsLValue:   lhs.IsLValue(),
		LHSIsBitField: lhs.IsBitField(),
	}

	candidates := admissibleBinaryReplacements(op)
	// "return arg1" and "return arg2" are unconditional extra mutants,
	// alongside every admissible opcode substitution (spec.md §4.B.3).
	d.SetVariantCount(len(candidates) + 2)

	return d, true
}

func opGroup(op string) []string {
	for _, group := range [][]string{arithmeticOps, comparisonOps, logicalOps, assignmentOps} {
		for _, c := range group {
			if c == op {
				return group
			}
		}
	}

	return nil
}

// admissibleBinaryReplacements implements the substitution groups of
// spec.md §4.B.3: arithmetic operators substitute among each other,
// comparisons among each other, logical among each other, and assignment
// operators among each other; an operator outside all four groups (e.g.
// raw bitwise shift/and/or) has no group-based substitutes.
func admissibleBinaryReplacements(op string) []string {
	group := opGroup(op)
	if group == nil {
		return nil
	}

	out := make([]string, 0, len(group)-1)
	for _, c := range group {
		if c != op {
			out = append(out, c)
		}
	}

	return out
}

func binaryOpcodeTag(op string) string {
	names := map[string]string{
		"+": "Add", "-": "Sub", "*": "Mul", "/": "Div", "%": "Rem",
		"==": "EQ", "!=": "NE", "<": "LT", "<=": "LE", ">": "GT", ">=": "GE",
		"&&": "LAnd", "||": "LOr",
		"=": "Assign", "+=": "AddAssign", "-=": "SubAssign", "*=": "MulAssign",
		"/=": "DivAssign", "%=": "RemAssign", "&=": "AndAssign", "|=": "OrAssign",
		"^=": "XorAssign", "<<=": "ShlAssign", ">>=": "ShrAssign",
	}
	if tag, ok := names[op]; ok {
		return tag
	}

	return "Op"
}

// BinaryDispatcherName synthesizes the dispatcher name for a ReplaceBinary
// descriptor, grounded on util.cc's naming scheme generalized to two
// operand types; an `_lhs_one` suffix flags an assignment LHS passed by
// reference (spec.md §4.B.3).
func BinaryDispatcherName(d *mutation.ReplaceBinary) string {
	lhsTag := dispatcherTypeTag(d.LHSType, false, false)
	rhsTag := dispatcherTypeTag(d.RHSType, false, false)
	name := fmt.Sprintf("__dredd_replace_binary_operator_%s_%s_%s", binaryOpcodeTag(d.Opcode), lhsTag, rhsTag)
	if isAssignmentOp(d.Opcode) && d.LHSIsLValue && !d.LHSIsBitField {
		name += "_lhs_one"
	}

	return name
}

func isAssignmentOp(op string) bool {
	for _, c := range assignmentOps {
		if c == op {
			return true
		}
	}

	return false
}

func binaryExprText(op, lhs, rhs string) string {
	return lhs + " " + op + " " + rhs
}

// BinaryDispatcherSource synthesizes the dispatcher body: logical operators
// thunk both operands to preserve short-circuiting; other operators take
// values (the LHS by reference when it's an assignment to a non-bit-field
// l-value). Every admissible opcode substitution gets an id-checked
// branch, followed by unconditional "return arg1"/"return arg2" branches,
// with the original computation as the no-id-enabled fallback.
func BinaryDispatcherSource(d *mutation.ReplaceBinary, cpp bool) string {
	resultType := qualifiedTypeName(d.ResultType, false, false)
	lhsType := typeName(d.LHSType)
	rhsType := typeName(d.RHSType)
	name := BinaryDispatcherName(d)

	lhsParam, rhsParam := "arg1", "arg2"
	var b strings.Builder
	if cpp && d.IsLogical {
		fmt.Fprintf(&b, "static %s %s(std::function<%s()> arg1, std::function<%s()> arg2, int local_mutation_id) {\n",
			resultType, name, lhsType, rhsType)
		lhsParam, rhsParam = "arg1()", "arg2()"
	} else if cpp {
		lhsDecl := lhsType
		if isAssignmentOp(d.Opcode) && d.LHSIsLValue && !d.LHSIsBitField {
			lhsDecl += "&"
		}
		fmt.Fprintf(&b, "static %s %s(%s arg1, %s arg2, int local_mutation_id) {\n", resultType, name, lhsDecl, rhsType)
	} else {
		fmt.Fprintf(&b, "static %s %s(%s arg1, %s arg2, int local_mutation_id) {\n", resultType, name, lhsType, rhsType)
	}

	offset := 0
	for _, op := range admissibleBinaryReplacements(d.Opcode) {
		fmt.Fprintf(&b, "  if (__dredd_enabled_mutation(local_mutation_id + %d)) return %s;\n",
			offset, binaryExprText(op, lhsParam, rhsParam))
		offset++
	}
	fmt.Fprintf(&b, "  if (__dredd_enabled_mutation(local_mutation_id + %d)) return %s;\n", offset, lhsParam)
	offset++
	fmt.Fprintf(&b, "  if (__dredd_enabled_mutation(local_mutation_id + %d)) return %s;\n", offset, rhsParam)
	offset++

	fmt.Fprintf(&b, "  return %s;\n}\n\n", binaryExprText(d.Opcode, lhsParam, rhsParam))

	return b.String()
}

// RewriteReplaceBinary performs the B.3 call-site rewrite: the binary
// expression is replaced by a call to its dispatcher, wrapping each operand
// in a thunk for logical operators or passing it by value/reference
// otherwise.
func RewriteReplaceBinary(buf *rewrite.Buffer, src string, d *mutation.ReplaceBinary, prelude *rewrite.Prelude, cpp bool) {
	prelude.AddDeclaration(BinaryDispatcherSource(d, cpp))

	localID := d.IDs().Lo
	name := BinaryDispatcherName(d)

	lhsBegin := rewrite.OffsetOf(src, d.LHSRange.BeginLine, d.LHSRange.BeginCol)
	lhsEnd := rewrite.OffsetOf(src, d.LHSRange.EndLine, d.LHSRange.EndCol)
	rhsBegin := rewrite.OffsetOf(src, d.RHSRange.BeginLine, d.RHSRange.BeginCol)
	rhsEnd := rewrite.OffsetOf(src, d.RHSRange.EndLine, d.RHSRange.EndCol)

	lhsType := typeName(d.LHSType)
	rhsType := typeName(d.RHSType)

	if cpp && d.IsLogical {
		buf.InsertBefore(lhsBegin, fmt.Sprintf("%s([&]() -> %s { return static_cast<%s>(", name, lhsType, lhsType))
		// The operator and its surrounding whitespace sit between the two
		// operands; replacing that gap (rather than the whole expression)
		// leaves any mutation already wrapping lhs/rhs untouched.
		_ = buf.Replace(lhsEnd, rhsBegin, fmt.Sprintf("); }, [&]() -> %s { return static_cast<%s>(", rhsType, rhsType))
		buf.InsertAfterToken(rhsEnd, fmt.Sprintf("); }, %d)", localID))

		return
	}

	buf.InsertBefore(lhsBegin, name+"(")
	_ = buf.Replace(lhsEnd, rhsBegin, ", ")
	buf.InsertAfterToken(rhsEnd, fmt.Sprintf(", %d)", localID))
}
