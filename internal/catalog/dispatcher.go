// Package catalog implements the four mutation families of spec.md §4.B:
// each knows its own applicability predicate (built on top of the guard
// package's admissibility rules), how to synthesize a unique dispatcher
// function, and how to rewrite its call site against a rewrite.Buffer.
package catalog

import (
	"strings"

	"github.com/dredd-go/dredd/internal/astiface"
)

// SpaceToUnderscore avoids spaces in generated identifiers for types such
// as "unsigned int", grounded on original_source's util.cc helper of the
// same name.
func SpaceToUnderscore(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}

// typeName maps a TypeFamily to the C/C++ spelling the dispatcher's
// signature and body embed. astiface only exposes the coarse family, not
// the exact spelled type a real front-end would carry (e.g. "unsigned
// long"), so this is the representative spelling for each family.
func typeName(tf astiface.TypeFamily) string {
	switch tf {
	case astiface.TypeBool:
		return "bool"
	case astiface.TypeInteger:
		return "int"
	case astiface.TypeUnsignedInteger:
		return "unsigned int"
	case astiface.TypeFloating:
		return "double"
	default:
		return "int"
	}
}

// qualifiedTypeName applies the volatile/reference modifiers a dispatcher's
// operand or result type needs when it is an l-value (spec.md §4.B.2,
// "ApplyTypeModifiers").
func qualifiedTypeName(tf astiface.TypeFamily, isLValue, isVolatile bool) string {
	name := typeName(tf)
	if isLValue {
		if isVolatile {
			name = "volatile " + name
		}
		name += "&"
	}

	return name
}

// dispatcherTypeTag is the SpaceToUnderscore'd form of a qualified type
// name, used as a name-mangling component.
func dispatcherTypeTag(tf astiface.TypeFamily, isLValue, isVolatile bool) string {
	return SpaceToUnderscore(qualifiedTypeName(tf, isLValue, isVolatile))
}
