package tree

import "github.com/dredd-go/dredd/internal/mutation"

// IDAllocator hands out contiguous blocks of the global mutation-id space.
// The coordinator package provides the atomic implementation; tree only
// needs this much of its surface to assign ids in pre-order.
type IDAllocator interface {
	Claim(count int) mutation.IDRange
}

// AssignIDs walks the tree in pre-order, giving each descriptor a
// contiguous id block from alloc and marking it mutation.IDAssigned. This
// is also the pass in which per-descriptor rewriting is triggered, via
// emit, so that ids and rewrites are issued in the same deterministic
// order (spec.md §8, invariants 1 and 2).
func AssignIDs(root *Node, alloc IDAllocator, emit func(mutation.Descriptor)) {
	root.Walk(func(n *Node) {
		for _, d := range n.Descriptors() {
			ids := alloc.Claim(d.VariantCount())
			d.SetIDs(ids)
			d.SetStatus(mutation.IDAssigned)
			emit(d)
			d.SetStatus(mutation.Emitted)
		}
	})
}

// IDTree is the pure id-projection of a Node, matching the
// `{"ids": [...], "children": [...]}` shape of the mutation-info JSON
// (spec.md §4.D).
type IDTree struct {
	IDs      []int    `json:"ids"`
	Children []IDTree `json:"children"`
}

// ToIDTree projects a (presumably already tidied and id-assigned) Node
// into its JSON-serializable id tree.
func ToIDTree(n *Node) IDTree {
	var ids []int
	for _, d := range n.Descriptors() {
		r := d.IDs()
		for id := r.Lo; id < r.Hi; id++ {
			ids = append(ids, id)
		}
	}
	children := make([]IDTree, 0, len(n.Children()))
	for _, c := range n.Children() {
		children = append(children, ToIDTree(c))
	}

	return IDTree{IDs: ids, Children: children}
}

// FileReport pairs a rewritten file's path with its mutation id tree.
type FileReport struct {
	Filename     string `json:"filename"`
	MutationTree IDTree `json:"mutation_tree"`
}

// Report is the top-level mutation-info document, aggregated across every
// translation unit processed in a run.
type Report struct {
	Files []FileReport `json:"files"`
}
