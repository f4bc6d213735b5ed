// Package tree builds the hierarchical mutation tree that mirrors enclosing
// syntactic scope, tidies it up, assigns ids in pre-order, and serializes it
// to JSON (spec.md §4.D).
package tree

import "github.com/dredd-go/dredd/internal/mutation"

// Node is a single scope in the mutation tree: a function, a compound
// statement, or a sub-statement entered during traversal. Its descriptors
// are mutually exclusive with each other and with every descriptor in any
// ancestor or descendant; siblings are not mutually exclusive.
type Node struct {
	descriptors []mutation.Descriptor
	children    []*Node
}

// New creates an empty mutation tree node.
func New() *Node {
	return &Node{}
}

// AddMutation attaches a descriptor to this node.
func (n *Node) AddMutation(d mutation.Descriptor) {
	n.descriptors = append(n.descriptors, d)
}

// AddChild appends a subtree as a child of this node and returns the child,
// so callers can push it onto a traversal path stack.
func (n *Node) AddChild(child *Node) *Node {
	n.children = append(n.children, child)

	return child
}

// Descriptors returns the descriptors directly attached to this node.
func (n *Node) Descriptors() []mutation.Descriptor { return n.descriptors }

// Children returns this node's direct children, in source order.
func (n *Node) Children() []*Node { return n.children }

// IsEmpty reports whether this node and its entire subtree carry no
// descriptors at all.
func (n *Node) IsEmpty() bool {
	if len(n.descriptors) != 0 {
		return false
	}
	for _, c := range n.children {
		if !c.IsEmpty() {
			return false
		}
	}

	return true
}

// TidyUp prunes empty subtrees and compresses chains of single-child,
// no-descriptor nodes into their child, per spec.md §4.D.
func (n *Node) TidyUp() {
	n.pruneEmptySubtrees()
	n.compress()
}

func (n *Node) pruneEmptySubtrees() {
	kept := n.children[:0]
	for _, c := range n.children {
		if c.IsEmpty() {
			continue
		}
		c.pruneEmptySubtrees()
		kept = append(kept, c)
	}
	n.children = kept
}

func (n *Node) compress() {
	for len(n.descriptors) == 0 && len(n.children) == 1 {
		only := n.children[0]
		n.descriptors = only.descriptors
		n.children = only.children
	}
	for _, c := range n.children {
		c.compress()
	}
}

// Walk visits every node in pre-order (this node, then each child
// subtree in order), matching the traversal order the engine used to
// build the tree. It is the order id assignment and rewriting must use to
// satisfy the determinism and id-contiguity invariants (spec.md §8).
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.children {
		c.Walk(visit)
	}
}
