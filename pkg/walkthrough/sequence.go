package walkthrough

import "github.com/matzehuels/treescape/pkg/tree"

// Sequence returns the depth-first pre-order of the subtree at start,
// visiting children in creation order. An unknown start yields an empty
// sequence.
func Sequence(m tree.Model, start string) []string {
	if m == nil {
		return nil
	}
	return tree.PreOrder(m, start)
}
