package tree

import (
	"errors"
	"testing"
)

func TestSnapshotValidate(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want error
	}{
		{
			name: "empty",
			snap: Snapshot{},
		},
		{
			name: "valid",
			snap: Snapshot{RootID: "A", Entries: map[string]Entry{
				"A": {Children: []string{"B", "C"}},
				"B": {Parent: "A", Children: []string{"D"}},
				"C": {Parent: "A"},
				"D": {Parent: "B"},
			}},
		},
		{
			name: "entries without root",
			snap: Snapshot{Entries: map[string]Entry{"A": {}}},
			want: ErrMissingRoot,
		},
		{
			name: "missing root entry",
			snap: Snapshot{RootID: "A", Entries: map[string]Entry{"B": {}}},
			want: ErrMissingRoot,
		},
		{
			name: "root with parent",
			snap: Snapshot{RootID: "A", Entries: map[string]Entry{"A": {Parent: "B"}, "B": {Children: []string{"A"}}}},
			want: ErrRootHasParent,
		},
		{
			name: "missing child",
			snap: Snapshot{RootID: "A", Entries: map[string]Entry{"A": {Children: []string{"B"}}}},
			want: ErrUnknownNode,
		},
		{
			name: "child disowns parent",
			snap: Snapshot{RootID: "A", Entries: map[string]Entry{
				"A": {Children: []string{"B"}},
				"B": {Parent: "C"},
				"C": {Parent: "A"},
			}},
			want: ErrParentMismatch,
		},
		{
			name: "parent forgets child",
			snap: Snapshot{RootID: "A", Entries: map[string]Entry{
				"A": {},
				"B": {Parent: "A"},
			}},
			want: ErrParentMismatch,
		},
		{
			name: "unknown parent",
			snap: Snapshot{RootID: "A", Entries: map[string]Entry{
				"A": {},
				"B": {Parent: "Z"},
			}},
			want: ErrUnknownParent,
		},
		{
			name: "detached cycle",
			snap: Snapshot{RootID: "A", Entries: map[string]Entry{
				"A": {},
				"B": {Parent: "C", Children: []string{"C"}},
				"C": {Parent: "B", Children: []string{"B"}},
			}},
			want: ErrUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSnapshotClone(t *testing.T) {
	s := Snapshot{RootID: "A", Entries: map[string]Entry{"A": {Children: []string{"B"}}, "B": {Parent: "A"}}}
	c := s.Clone()
	c.Entries["A"].Children[0] = "X"
	if s.Entries["A"].Children[0] != "B" {
		t.Error("Clone() shares child slices with the original")
	}
}

func TestSnapshotModel(t *testing.T) {
	var m Model = Snapshot{RootID: "A", Entries: map[string]Entry{"A": {Children: []string{"B"}}, "B": {Parent: "A"}}}
	if m.Root() != "A" || !m.Has("B") || m.Has("Z") {
		t.Error("Snapshot does not behave as a Model")
	}
	if p, ok := m.Parent("B"); !ok || p != "A" {
		t.Errorf("Parent(B) = %q, %v", p, ok)
	}
}
