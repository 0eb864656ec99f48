// Package rope provides a generic, persistent, metric-indexed rope.
//
// A Rope[T, M] is a depth-balanced (AVL) binary tree whose leaves each hold
// a single value of item type T; leaf weights play no part in balancing. Every node caches the monoidal sum of its
// subtree's metrics (type M) plus its depth, so random access, splitting,
// and joining are all O(log n). Operations are persistent in spirit:
// mutating methods build new nodes along the path from root to the edit and
// share every untouched subtree with the original tree, but the Rope value
// itself is a thin mutable handle (like the teacher engine's Buffer wraps an
// immutable rope.Rope) so callers don't have to thread return values through
// every call site.
//
// # Item and Metrics
//
// T must implement Item[T, M]: Metrics() reports the leaf's monoidal
// contribution, IsEmpty() identifies the sentinel, and Empty() constructs
// that sentinel. M must implement Metrics[M], an Add monoid. A metrics type
// may additionally implement WeightedMetrics to unlock the weight-indexed
// operations (FindByWeight, SplitByWeight, ...), and an item type may
// implement MarkerItem to be indexed by the marker cache (MarkerCount,
// GetMarker).
//
// # Undo graph
//
// Rope[T, M] embeds a bounded undo/redo history over its own root pointers:
// StoreUndo snapshots the current root under an opaque tag, Undo/Redo swap
// roots, and a new StoreUndo after an Undo discards the redo frontier (the
// "discard on new edit" behavior spec.md's Design Notes call out as the
// adopted variant).
package rope
