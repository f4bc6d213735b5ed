package catalog

import (
	"fmt"

	"github.com/dredd-go/dredd/internal/astiface"
	"github.com/dredd-go/dredd/internal/guard"
	"github.com/dredd-go/dredd/internal/mutation"
	"github.com/dredd-go/dredd/internal/rewrite"
)

// BuildRemoveStmt implements the "Statement removal" applicability
// predicate of spec.md §4.B.1, on top of guard.CanRemoveStmt's per-
// construct admissibility check. It returns ok=false if the statement is
// not a RemoveStmt candidate.
func BuildRemoveStmt(n astiface.Node, src string, opts guard.Options) (*mutation.RemoveStmt, bool) {
	if !guard.CanRemoveStmt(n, opts) {
		return nil, false
	}

	rng := n.Range()
	info := mutation.NewRangeInfo(rng, sourceText(src, rng))
	d := &mutation.RemoveStmt{Base: mutation.NewBase(rng, info)}

	endOffset := rewrite.OffsetOf(src, rng.EndLine, rng.EndCol)
	extEnd, _, extendedSemi := extendPastTrailer(src, endOffset)
	if !extendedSemi {
		d.NextTokenIsHash = nextNonSpaceIsHash(src, extEnd)
	}

	return d, true
}

// RewriteRemoveStmt performs the B.1 textual rewrite: wraps the statement
// in `if (!__dredd_enabled_mutation(id)) { ... }`, or — in coverage mode —
// prepends a coverage-recording call, extending the edited range past
// trailing comments and a following semicolon exactly as the construction
// pass determined.
func RewriteRemoveStmt(buf *rewrite.Buffer, src string, d *mutation.RemoveStmt, opts guard.Options) {
	localID := d.IDs().Lo
	rng := d.Range()
	beginOffset := rewrite.OffsetOf(src, rng.BeginLine, rng.BeginCol)
	endOffset := rewrite.OffsetOf(src, rng.EndLine, rng.EndCol)
	extEnd, extendedComment, extendedSemi := extendPastTrailer(src, endOffset)

	if opts.OnlyTrackCoverage {
		buf.InsertBefore(beginOffset, fmt.Sprintf("__dredd_record_covered_mutants(%d, 1); ", localID))
		return
	}

	buf.InsertBefore(beginOffset, fmt.Sprintf("if (!__dredd_enabled_mutation(%d)) { ", localID))

	closing := " }"
	if !extendedSemi && d.NextTokenIsHash {
		closing = "; " + closing
	}
	if extendedComment && !extendedSemi {
		closing = "\n" + closing
	}
	buf.InsertAfterToken(extEnd, closing)
}

func sourceText(src string, rng astiface.SourceRange) string {
	lo := rewrite.OffsetOf(src, rng.BeginLine, rng.BeginCol)
	hi := rewrite.OffsetOf(src, rng.EndLine, rng.EndCol)
	if lo < 0 || hi > len(src) || lo > hi {
		return ""
	}

	return src[lo:hi]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// extendPastTrailer skips whitespace and comments starting at end, then —
// if the next token after those comments is a semicolon — extends past
// that too. It reports the new end offset and whether comments and/or a
// semicolon were swallowed (spec.md §4.B.1, "Source-range extension").
func extendPastTrailer(src string, end int) (newEnd int, extendedComment, extendedSemi bool) {
	i := end
	for {
		j := i
		for j < len(src) && isSpace(src[j]) {
			j++
		}
		if j+1 < len(src) && src[j] == '/' && src[j+1] == '/' {
			k := j + 2
			for k < len(src) && src[k] != '\n' {
				k++
			}
			i = k
			extendedComment = true

			continue
		}
		if j+1 < len(src) && src[j] == '/' && src[j+1] == '*' {
			k := j + 2
			for k+1 < len(src) && !(src[k] == '*' && src[k+1] == '/') {
				k++
			}
			if k+2 <= len(src) {
				k += 2
			} else {
				k = len(src)
			}
			i = k
			extendedComment = true

			continue
		}

		break
	}

	j := i
	for j < len(src) && isSpace(src[j]) {
		j++
	}
	if j < len(src) && src[j] == ';' {
		return j + 1, extendedComment, true
	}

	return i, extendedComment, false
}

// nextNonSpaceIsHash reports whether the next non-whitespace byte at or
// after pos is a preprocessor '#', per spec.md §4.B.1's synthetic-semicolon
// rule for statements separated from their semicolon by a directive.
func nextNonSpaceIsHash(src string, pos int) bool {
	j := pos
	for j < len(src) && isSpace(src[j]) {
		j++
	}

	return j < len(src) && src[j] == '#'
}
