package walkthrough_test

import (
	"fmt"

	"github.com/matzehuels/treescape/pkg/tree"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

func ExampleBuild() {
	s := tree.Snapshot{
		RootID: "hub",
		Entries: map[string]tree.Entry{
			"hub":   {Children: []string{"idea", "note"}},
			"idea":  {Parent: "hub", Children: []string{"reply"}},
			"reply": {Parent: "idea"},
			"note":  {Parent: "hub"},
		},
	}
	res := walkthrough.Build(s, "hub", walkthrough.DefaultConfig())
	for _, r := range res.Layout {
		fmt.Printf("%d %s %v->%v\n", r.SequenceIndex, r.ID, r.Entry, r.Exit)
	}
	// Output:
	// 0 hub none->right
	// 1 idea left->right
	// 2 reply left->right
	// 3 note left->none
}

func ExampleSeed() {
	fmt.Println(walkthrough.Seed("hub"))
	// Output: 319
}
