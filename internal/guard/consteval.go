package guard

import "github.com/dredd-go/dredd/internal/astiface"

// EquivalentTo resolves the §9 open question "precise semantics of
// 'equivalent to 1' for the optimisation filter": equivalence is defined as
// "compile-time evaluates to the literal under the expression's own type,
// ignoring truncation" — a numeric literal node whose value, truncated to
// an integer when the node's type family is integral, equals want.
//
// Only numeric-literal nodes are recognised; anything the front-end hasn't
// folded to a literal (a named constant, a sub-expression needing its own
// constant folding) is conservatively treated as not equivalent, so the
// optimisation never silently drops an admissible mutation it can't prove
// redundant.
func EquivalentTo(n astiface.Node, want float64) bool {
	v, ok := n.NumericLiteralValue()
	if !ok {
		return false
	}

	if n.Type() == astiface.TypeInteger || n.Type() == astiface.TypeUnsignedInteger {
		return float64(int64(v)) == want
	}

	return v == want
}

// IsZero and IsOne are the two equivalences the catalog actually needs
// (spec.md §4.B.2, §4.B.3): "equivalent to 0"/"equivalent to 1" gate the
// unary `-`/`~` and binary arithmetic optimisation skips.
func IsZero(n astiface.Node) bool { return EquivalentTo(n, 0) }

// IsOne reports whether n is the compile-time constant 1 under its own
// type, per the same rule as IsZero.
func IsOne(n astiface.Node) bool { return EquivalentTo(n, 1) }
