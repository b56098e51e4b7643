// Package walkthrough turns a tree into a walkable floor plan.
//
// # Pipeline
//
// A walkthrough is built in three pure steps:
//
//  1. [Sequence] orders the nodes by a depth-first pre-order traversal,
//     children in creation order. Node positions play no role.
//  2. [LayoutRooms] gives every node in the sequence a rectangular room.
//     Footprints are drawn from a fixed palette with a seeded [LCG] and
//     rooms snake in rows: even rows run right, odd rows run left and the
//     last room of a row turns down into the next row.
//  3. [CarveWalls] emits four wall segments per room and opens a doorway
//     of Config.DoorWidth on the entry and exit sides.
//
// [Build] runs all three and assembles a [Result].
//
// # Determinism
//
// The seed is derived from the identity of the start node with [Seed] and
// the generator recurrence is fixed by [LCGVersion]. The same tree and
// configuration always produce an identical result, so walkthroughs can be
// regenerated on every read instead of being stored.
//
// # Doorways
//
// Consecutive rooms share a wall line. The doorway point of room i's exit
// is copied into room i+1's entry, so the two door centers coincide exactly
// when RoomGap is zero. Rooms that turn into the next row take the deepest
// palette depth, which keeps adjacent rows from overlapping.
package walkthrough
