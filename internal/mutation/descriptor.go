/*
 * Copyright 2022 The Gremlins Authors
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package mutation defines the four-variant mutation descriptor that the
// guard engine emits and the catalog consumes.
package mutation

import "github.com/dredd-go/dredd/internal/astiface"

// Kind is the mutation family a Descriptor belongs to.
type Kind int

// The four mutation families the catalog supports.
const (
	KindRemoveStmt Kind = iota
	KindReplaceUnary
	KindReplaceBinary
	KindReplaceExpr
)

func (k Kind) String() string {
	switch k {
	case KindRemoveStmt:
		return "REMOVE_STMT"
	case KindReplaceUnary:
		return "REPLACE_UNARY_OPERATOR"
	case KindReplaceBinary:
		return "REPLACE_BINARY_OPERATOR"
	case KindReplaceExpr:
		return "REPLACE_EXPR"
	default:
		panic("this should not happen")
	}
}

// Status is the lifecycle state of a Descriptor: created during traversal,
// mutated once at id-assignment time, then consumed in a single emission
// pass (spec.md §3, "Lifecycles").
type Status int

// The lifecycle states a Descriptor passes through.
const (
	Discovered Status = iota
	IDAssigned
	Emitted
	Rejected
)

func (s Status) String() string {
	switch s {
	case Discovered:
		return "DISCOVERED"
	case IDAssigned:
		return "ID_ASSIGNED"
	case Emitted:
		return "EMITTED"
	case Rejected:
		return "REJECTED"
	default:
		panic("this should not happen")
	}
}

// RangeInfo is the "Info-for-Source-Range" record from spec.md §3: the
// human-facing position plus a possibly-truncated source snippet.
type RangeInfo struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
	Snippet   string
}

const snippetThreshold = 36
const snippetEdge = 10
const snippetGap = " ... [snip] ... "

// NewRangeInfo builds a RangeInfo from a source range and the verbatim text
// it spans. Text longer than 36 characters is truncated to its first and
// last 10 characters, joined by " ... [snip] ... ".
func NewRangeInfo(r astiface.SourceRange, text string) RangeInfo {
	snippet := text
	if len(text) > snippetThreshold {
		snippet = text[:snippetEdge] + snippetGap + text[len(text)-snippetEdge:]
	}

	return RangeInfo{
		StartLine: r.BeginLine,
		StartCol:  r.BeginCol,
		EndLine:   r.EndLine,
		EndCol:    r.EndCol,
		Snippet:   snippet,
	}
}

// IDRange is the contiguous block of mutation ids a Descriptor claims, as
// the half-open range [Lo, Hi).
type IDRange struct {
	Lo int
	Hi int
}

// Len returns the number of ids in the range.
func (r IDRange) Len() int { return r.Hi - r.Lo }

// Descriptor is the common surface of all four mutation variants.
//
// Concrete variants (RemoveStmt, ReplaceUnary, ReplaceBinary, ReplaceExpr)
// embed Base and add their own variant-specific fields.
type Descriptor interface {
	Kind() Kind
	Status() Status
	SetStatus(Status)
	Range() astiface.SourceRange
	Info() RangeInfo
	IDs() IDRange
	SetIDs(IDRange)
	// VariantCount returns how many distinct runtime-selectable
	// alternatives this descriptor exposes; its assigned id block has
	// exactly this many ids.
	VariantCount() int
}

// Base carries the fields common to every Descriptor variant.
type Base struct {
	status  Status
	rng     astiface.SourceRange
	info    RangeInfo
	idRange IDRange
}

// NewBase constructs the common portion of a Descriptor.
func NewBase(rng astiface.SourceRange, info RangeInfo) Base {
	return Base{rng: rng, info: info}
}

// Status returns the current lifecycle Status.
func (b *Base) Status() Status { return b.status }

// SetStatus updates the lifecycle Status.
func (b *Base) SetStatus(s Status) { b.status = s }

// Range returns the main-file source range the descriptor covers.
func (b *Base) Range() astiface.SourceRange { return b.rng }

// Info returns the position/snippet record for reporting.
func (b *Base) Info() RangeInfo { return b.info }

// IDs returns the assigned id block.
func (b *Base) IDs() IDRange { return b.idRange }

// SetIDs assigns the id block, once, during the tree's pre-order pass.
func (b *Base) SetIDs(r IDRange) { b.idRange = r }

// RemoveStmt is the "remove statement" mutation variant (spec.md §3, §4.B.1).
type RemoveStmt struct {
	Base
	NextTokenIsHash bool
}

// Kind implements Descriptor.
func (*RemoveStmt) Kind() Kind { return KindRemoveStmt }

// VariantCount implements Descriptor: a single conditional-skip alternative.
func (*RemoveStmt) VariantCount() int { return 1 }

// ReplaceUnary is the "replace unary operator" mutation variant.
type ReplaceUnary struct {
	Base
	OperandRange astiface.SourceRange
	Opcode       string
	IsPrefixOp   bool
	OperandType  astiface.TypeFamily
	ResultType   astiface.TypeFamily
	OperandIsLValue            bool
	OperandIsConstantExpression bool
	IsVolatile                 bool
	variants                   int
}

// Kind implements Descriptor.
func (*ReplaceUnary) Kind() Kind { return KindReplaceUnary }

// VariantCount implements Descriptor.
func (r *ReplaceUnary) VariantCount() int { return r.variants }

// SetVariantCount records how many alternative opcodes this descriptor's
// dispatcher will expose, computed by the catalog from the admissible
// opcode set (spec.md §4.B.2).
func (r *ReplaceUnary) SetVariantCount(n int) { r.variants = n }

// ReplaceBinary is the "replace binary operator" mutation variant.
type ReplaceBinary struct {
	Base
	LHSRange   astiface.SourceRange
	RHSRange   astiface.SourceRange
	Opcode     string
	LHSType    astiface.TypeFamily
	RHSType    astiface.TypeFamily
	ResultType astiface.TypeFamily
	IsLogical     bool
	LHSIsLValue   bool
	LHSIsBitField bool
	variants      int
}

// Kind implements Descriptor.
func (*ReplaceBinary) Kind() Kind { return KindReplaceBinary }

// VariantCount implements Descriptor.
func (r *ReplaceBinary) VariantCount() int { return r.variants }

// SetVariantCount records how many alternative opcodes (plus "return arg1"/
// "return arg2") this descriptor's dispatcher exposes.
func (r *ReplaceBinary) SetVariantCount(n int) { r.variants = n }

// ReplaceExpr is the "replace expression" mutation variant.
type ReplaceExpr struct {
	Base
	ExprType             astiface.TypeFamily
	IsLValue             bool
	IsConstantExpression bool
	IsLogicalAnd         bool
	IsLogicalOr          bool
	variants             int
}

// Kind implements Descriptor.
func (*ReplaceExpr) Kind() Kind { return KindReplaceExpr }

// VariantCount implements Descriptor.
func (r *ReplaceExpr) VariantCount() int { return r.variants }

// SetVariantCount records how many literal/unary alternatives this
// descriptor's dispatcher exposes (spec.md §4.B.4).
func (r *ReplaceExpr) SetVariantCount(n int) { r.variants = n }
