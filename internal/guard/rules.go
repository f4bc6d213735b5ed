package guard

import "github.com/dredd-go/dredd/internal/astiface"

// CanRemoveStmt implements the "Statement removal" rules of A.2. It is
// evaluated for each direct child of a compound statement only; a label
// statement is rejected, and statements under case/default or other labels
// are not considered for removal.
func CanRemoveStmt(n astiface.Node, opts Options) bool {
	switch n.Kind() {
	case astiface.KindNullStmt, astiface.KindDeclStmt, astiface.KindLabelStmt:
		return false
	}

	if !n.Range().Valid() {
		return false
	}

	if opts.OptimiseMutations {
		if n.Kind() == astiface.KindExprStmt && isSideEffectFree(n) {
			return false
		}
		if n.Kind() == astiface.KindCompoundStmt {
			return false
		}
	}

	return true
}

// isSideEffectFree is a conservative approximation: an expression statement
// has no side effect if its sole child is a literal or a plain variable
// reference, never a call.
func isSideEffectFree(stmt astiface.Node) bool {
	children := stmt.Children()
	if len(children) != 1 {
		return false
	}
	switch children[0].Kind() {
	case astiface.KindDeclRefExpr:
		return true
	default:
		_, isLiteral := children[0].NumericLiteralValue()
		return isLiteral
	}
}

// CanReplaceUnary implements the "Unary operator replacement" rules of A.2,
// including the optimisation-mode skips for `-` and `~` applied to an
// operand that is already equivalent to the result the mutant would
// produce.
func CanReplaceUnary(n astiface.Node, opts Options) bool {
	if !n.Type().IsScalar() {
		return false
	}
	if n.Opcode() == "+" {
		return false
	}
	operand := unaryOperand(n)
	if (n.Opcode() == "++" || n.Opcode() == "--") && operand != nil && operand.IsBitField() {
		return false
	}

	if opts.OptimiseMutations && operand != nil {
		switch n.Opcode() {
		case "-":
			if IsOne(operand) {
				return false
			}
		case "~":
			if IsZero(operand) || IsOne(operand) {
				return false
			}
		}
	}

	return true
}

func unaryOperand(unary astiface.Node) astiface.Node {
	children := unary.Children()
	if len(children) != 1 {
		return nil
	}

	return children[0]
}

// CanReplaceBinary implements the "Binary operator replacement" rules of
// A.2, including the optimisation-mode skip for an LHS/RHS pair that is
// already equivalent to the one mutant ("0 op 1") the filter targets.
func CanReplaceBinary(n astiface.Node, lhs, rhs astiface.Node, opts Options) bool {
	if !lhs.Range().Valid() || !rhs.Range().Valid() {
		return false
	}
	if !lhs.IsInMainFile() && !lhs.MacroOrigin().ExpansionInMain {
		return false
	}
	if !rhs.IsInMainFile() && !rhs.MacroOrigin().ExpansionInMain {
		return false
	}
	if !lhs.Type().IsScalar() || !rhs.Type().IsScalar() {
		return false
	}
	if n.Opcode() == "," {
		return false
	}
	if isAssignmentOpcode(n.Opcode()) && lhs.IsBitField() {
		return false
	}
	if opts.OptimiseMutations && IsZero(lhs) && IsOne(rhs) {
		return false
	}

	return true
}

func isAssignmentOpcode(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return true
	default:
		return false
	}
}

// CanMutateLValue implements the l-value eligibility check shared by
// ReplaceExpr and the ReplaceUnary ++/-- admissible-opcode set: the operand
// must be a plain l-value that prefix ++/-- can safely be applied to, which
// rules out bit-fields (no address to bind a reference to).
func CanMutateLValue(n astiface.Node) bool {
	return n.IsLValue() && !n.IsBitField() && n.Type().IsScalar()
}

// CanReplaceExpr implements the "Expression replacement" rules of A.2.
func CanReplaceExpr(n astiface.Node, opts Options) bool {
	if n.IsLValue() && !CanMutateLValue(n) {
		return false
	}

	switch n.Kind() {
	case astiface.KindInitListExpr:
		return false
	}

	if isNullPointerConstantCast(n) {
		return false
	}

	if isSameCategoryCast(n) && !parentIsInitList(n) {
		return false
	}

	parent := n.Parent()
	if parent != nil {
		switch parent.Kind() {
		case astiface.KindCompoundStmt, astiface.KindCaseStmt, astiface.KindDefaultStmt:
			return false
		}
	}

	if isParenOrCleanupWrapper(n) {
		return false
	}

	return n.Type().IsScalar() || n.Kind() == astiface.KindBinaryOperator
}

func isNullPointerConstantCast(n astiface.Node) bool {
	if n.Kind() != astiface.KindImplicitCastExpr {
		return false
	}
	v, ok := n.NumericLiteralValue()

	return ok && v == 0 && n.Type() == astiface.TypeUnsupported
}

// isSameCategoryCast is the optimisation heuristic: an implicit cast whose
// value category is unchanged (i.e. not an l-value-to-r-value conversion)
// carries no observable mutation surface of its own.
func isSameCategoryCast(n astiface.Node) bool {
	return n.Kind() == astiface.KindImplicitCastExpr && n.IsLValue()
}

func parentIsInitList(n astiface.Node) bool {
	p := n.Parent()
	return p != nil && p.Kind() == astiface.KindInitListExpr
}

func isParenOrCleanupWrapper(n astiface.Node) bool {
	return n.Kind() == astiface.KindParenExpr
}
