package engine

import "github.com/dredd-go/dredd/internal/guard"

// Options controls one run of the engine across every translation unit it
// is given. It embeds the guard engine's own Options (the two knobs that
// affect which mutations are admissible) and adds the run-level knobs spec.md
// §6 exposes on the command line.
type Options struct {
	guard.Options

	// MutationInfoFile is where the aggregated mutation-info JSON is
	// written; empty means "don't write a report".
	MutationInfoFile string
}
