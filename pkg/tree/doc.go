// Package tree provides the tree model consumed by the geometry engine.
//
// # Overview
//
// A treescape tree is a root "hub" with nested replies. Every node has
// exactly one parent (except the root), an ordered child list in creation
// order, a global creation-order index and a sibling index. The sibling
// index is assigned once, when the node is created, and never changes:
// placement is append-only, so existing nodes never move when siblings are
// added or removed.
//
// # Read-only view
//
// The engine only needs the [Model] interface: root identity, parent lookup
// and ordered children. Both [Snapshot] (an immutable value, typically
// decoded from a document or loaded from a store) and [Tree] (the mutable,
// append-only container) implement it.
//
// # Mutation
//
// [Tree.Insert] adds a node and calls a placement callback with the new
// node's sibling index, so the node is stored together with its position
// in a single step. [Tree.Remove] detaches a subtree without touching
// remaining positions; the freed sibling indices are not reused.
//
// # Concurrency
//
// Tree instances are not safe for concurrent use. The starfield package
// wraps a Tree with a mutex. Snapshots are values and can be shared freely
// once built.
package tree
