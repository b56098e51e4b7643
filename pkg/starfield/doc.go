// Package starfield keeps a live tree whose nodes float in free 3D space.
//
// A [Field] wraps a [tree.Tree] and a [placement.Placer]. Every [Field.Add]
// fixes the new node's sibling index, computes its position and stores the
// node in one critical section, so readers never observe a node without a
// position and two concurrent adds under the same parent never share a
// sibling index.
//
// Positions are append-only: once a node is placed it never moves. Removing
// a subtree leaves gaps in the spiral that later siblings do not fill.
//
// [Replay] rebuilds a field from an external [tree.Snapshot], for example a
// document without coordinates, by adding nodes in creation order.
package starfield
