package rewrite

import "strings"

// Prelude accumulates the unique dispatcher-function source strings
// generated while rewriting one translation unit, and renders the block of
// text that must be inserted at the file's prelude marker (spec.md §4.C).
//
// Deduplication is by exact string equality, so two candidates that would
// synthesize byte-identical dispatcher source (e.g. two `int` unary-minus
// sites) only contribute one definition, satisfying the "dispatcher dedup"
// invariant of spec.md §8.
type Prelude struct {
	cpp      bool
	coverage bool
	seen     map[string]bool
	order    []string
}

// NewPrelude creates an empty Prelude for a translation unit with the given
// language and coverage-mode settings.
func NewPrelude(cpp, coverage bool) *Prelude {
	return &Prelude{cpp: cpp, coverage: coverage, seen: make(map[string]bool)}
}

// AddDeclaration records a dispatcher source string, returning true if it
// had not been seen before (and so was actually appended).
func (p *Prelude) AddDeclaration(src string) bool {
	if p.seen[src] {
		return false
	}
	p.seen[src] = true
	p.order = append(p.order, src)

	return true
}

// Render assembles the full prelude text: forward declarations for the
// runtime contract functions, the C++-only <functional> include, and every
// accumulated dispatcher definition in discovery order.
func (p *Prelude) Render() string {
	var b strings.Builder

	b.WriteString("int __dredd_enabled_mutation(int local_mutation_id);\n")
	b.WriteString("extern bool __dredd_some_mutation_enabled;\n")
	if p.coverage {
		b.WriteString("void __dredd_record_covered_mutants(int local_mutation_id, int count);\n")
	}
	if p.cpp {
		b.WriteString("#include <functional>\n")
	}
	b.WriteString("\n")

	for _, decl := range p.order {
		b.WriteString(decl)
	}

	return b.String()
}
