// Package rewrite implements the nested-insertion text buffer and prelude
// synthesis of spec.md §4.C: textual edits are issued as insert-before /
// insert-after-token operations that never clobber each other, plus a
// single-shot replace for the rare case a whole range must be swapped out
// wholesale.
package rewrite

import (
	"fmt"
	"sort"
	"strings"
)

type edit struct {
	before []string
	after  []string
}

type replacement struct {
	lo, hi int
	text   string
}

// Buffer accumulates edits against one source file's text. It is built
// fresh per translation unit; nothing about it is safe for concurrent use,
// matching "each instance owns its own rewriter" (spec.md §5).
type Buffer struct {
	edits        map[int]*edit
	replacements []replacement
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{edits: make(map[int]*edit)}
}

func (b *Buffer) at(offset int) *edit {
	e, ok := b.edits[offset]
	if !ok {
		e = &edit{}
		b.edits[offset] = e
	}

	return e
}

// InsertBefore queues text to appear immediately before offset, in the
// order issued relative to other InsertBefore calls at the same offset.
func (b *Buffer) InsertBefore(offset int, text string) {
	e := b.at(offset)
	e.before = append(e.before, text)
}

// InsertAfterToken queues text to appear immediately after offset (the end
// of whatever token or range was last consumed up to that point). At a
// shared offset, every InsertAfterToken text renders after every
// InsertBefore text (spec.md §9). Calls are replayed last-issued-first: a
// mutation that wraps a descendant expression always issues its own closing
// text before recursing into that descendant (pre-order), so when both
// close at the same offset the descendant's closing text — queued second —
// must render first to keep the two calls nested correctly.
func (b *Buffer) InsertAfterToken(offset int, text string) {
	e := b.at(offset)
	e.after = append(e.after, text)
}

// Replace swaps src[lo:hi] for text wholesale. It is a programming error to
// register overlapping replacements; this is reported immediately rather
// than deferred to Render, per spec.md §7's "rewrite conflict" error kind.
func (b *Buffer) Replace(lo, hi int, text string) error {
	for _, r := range b.replacements {
		if lo < r.hi && r.lo < hi {
			return fmt.Errorf("rewrite conflict: [%d,%d) overlaps existing replacement [%d,%d)", lo, hi, r.lo, r.hi)
		}
	}
	b.replacements = append(b.replacements, replacement{lo: lo, hi: hi, text: text})

	return nil
}

// Render applies every queued edit against src and returns the rewritten
// text. Replacements are applied in position order; insertions at a given
// offset always render before that offset's original (or replaced) text.
func (b *Buffer) Render(src string) (string, error) {
	sorted := append([]replacement(nil), b.replacements...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].lo < sorted[j].lo })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].lo < sorted[i-1].hi {
			return "", fmt.Errorf("rewrite conflict: overlapping replacements at [%d,%d) and [%d,%d)",
				sorted[i-1].lo, sorted[i-1].hi, sorted[i].lo, sorted[i].hi)
		}
	}

	var out strings.Builder
	ri := 0
	for i := 0; i <= len(src); i++ {
		if e, ok := b.edits[i]; ok {
			for _, s := range e.before {
				out.WriteString(s)
			}
			for i := len(e.after) - 1; i >= 0; i-- {
				out.WriteString(e.after[i])
			}
		}
		if ri < len(sorted) && sorted[ri].lo == i {
			out.WriteString(sorted[ri].text)
			i = sorted[ri].hi - 1
			ri++

			continue
		}
		if i == len(src) {
			break
		}
		out.WriteByte(src[i])
	}

	return out.String(), nil
}

// OffsetOf converts a 1-indexed (line, col) position into a 0-indexed byte
// offset into src. astiface expresses ranges as line/col pairs so that
// SourceRange can be compared without a shared file set; the rewriter
// needs raw offsets, so this is the one place the two meet.
func OffsetOf(src string, line, col int) int {
	i := 0
	curLine := 1
	for curLine < line && i < len(src) {
		if src[i] == '\n' {
			curLine++
		}
		i++
	}

	return i + col - 1
}
