package tree_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dredd-go/dredd/internal/mutation"
	"github.com/dredd-go/dredd/internal/tree"
)

type fakeAllocator struct {
	next int
}

func (a *fakeAllocator) Claim(count int) mutation.IDRange {
	lo := a.next
	a.next += count
	return mutation.IDRange{Lo: lo, Hi: a.next}
}

func TestAssignIDs_Contiguous(t *testing.T) {
	root := tree.New()
	d1 := newRemoveStmt()
	d2 := &mutation.ReplaceUnary{}
	d2.SetVariantCount(2)
	root.AddMutation(d1)
	child := tree.New()
	child.AddMutation(d2)
	root.AddChild(child)

	alloc := &fakeAllocator{}
	var emitted []mutation.Descriptor
	tree.AssignIDs(root, alloc, func(d mutation.Descriptor) {
		emitted = append(emitted, d)
	})

	if d1.IDs() != (mutation.IDRange{Lo: 0, Hi: 1}) {
		t.Fatalf("expected d1 ids [0,1), got %+v", d1.IDs())
	}
	if d2.IDs() != (mutation.IDRange{Lo: 1, Hi: 3}) {
		t.Fatalf("expected d2 ids [1,3), got %+v", d2.IDs())
	}
	if len(emitted) != 2 {
		t.Fatalf("expected 2 emitted descriptors, got %d", len(emitted))
	}
	if d1.Status() != mutation.Emitted || d2.Status() != mutation.Emitted {
		t.Fatalf("expected both descriptors to end up Emitted")
	}
}

func TestToIDTree_Shape(t *testing.T) {
	root := tree.New()
	d1 := newRemoveStmt()
	root.AddMutation(d1)
	child := tree.New()
	d2 := &mutation.ReplaceUnary{}
	d2.SetVariantCount(2)
	child.AddMutation(d2)
	root.AddChild(child)

	alloc := &fakeAllocator{}
	tree.AssignIDs(root, alloc, func(mutation.Descriptor) {})

	got := tree.ToIDTree(root)
	want := tree.IDTree{
		IDs: []int{0},
		Children: []tree.IDTree{
			{IDs: []int{1, 2}, Children: []tree.IDTree{}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected id tree (-want +got):\n%s", diff)
	}
}

func TestReport_JSONShape(t *testing.T) {
	rep := tree.Report{
		Files: []tree.FileReport{
			{
				Filename: "foo.cc",
				MutationTree: tree.IDTree{
					IDs:      []int{0, 1},
					Children: []tree.IDTree{{IDs: nil, Children: nil}},
				},
			},
		},
	}

	b, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("unexpected marshal error: %s", err)
	}

	var roundTrip map[string]any
	if err := json.Unmarshal(b, &roundTrip); err != nil {
		t.Fatalf("unexpected unmarshal error: %s", err)
	}
	if _, ok := roundTrip["files"]; !ok {
		t.Fatalf("expected a top-level \"files\" key, got %s", b)
	}
}
