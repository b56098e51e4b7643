package walkthrough

import (
	"fmt"

	"github.com/matzehuels/treescape/pkg/tree"
)

// snapshot builds a model from parent -> children pairs. The first key is the root.
func snapshot(root string, edges map[string][]string) tree.Snapshot {
	s := tree.Snapshot{RootID: root, Entries: map[string]tree.Entry{root: {}}}
	for parent, kids := range edges {
		e := s.Entries[parent]
		e.Children = kids
		s.Entries[parent] = e
		for _, k := range kids {
			c := s.Entries[k]
			c.Parent = parent
			s.Entries[k] = c
		}
	}
	return s
}

// chain builds a hub with n-1 direct children.
func chain(n int) tree.Snapshot {
	kids := make([]string, 0, n-1)
	for i := 1; i < n; i++ {
		kids = append(kids, fmt.Sprintf("n%02d", i))
	}
	return snapshot("hub", map[string][]string{"hub": kids})
}
