// Package scene defines the JSON documents exchanged with the outside world.
//
// Three documents are supported:
//
//   - [Tree]: the tree snapshot, root identity plus a flat node map. Node
//     positions are optional; a document without positions is replayed
//     through the starfield to compute them.
//   - [Placements]: node ID to (x, y, z).
//   - [Walkthrough]: rooms with their centers, carved wall segments and the
//     typical room size.
//
// Vectors are encoded as three-element arrays:
//
//	{
//	  "root": "hub",
//	  "anchor": [0, 0, 0],
//	  "nodes": {
//	    "hub":  {"parent": "", "children": ["idea"], "order": 0},
//	    "idea": {"parent": "hub", "children": [], "order": 1, "sibling": 0}
//	  }
//	}
//
// Conversions to and from engine types are lossless for every field the
// engine uses, so export followed by import yields the same snapshot.
// Output is deterministic: map keys are sorted by encoding/json and slices
// keep engine order.
package scene
