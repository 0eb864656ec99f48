package rope

// defaultMaxUndoDepth bounds the undo stack so long editing sessions don't
// retain every historical root forever. 0 means unbounded; SetMaxUndoDepth
// overrides it per rope.
const defaultMaxUndoDepth = 1000

type undoFrame[T Item[T, M], M Metrics[M]] struct {
	root *node[T, M]
	tag  Tag
}

// undoGraph is a pair of stacks over root pointers: StoreUndo pushes a
// snapshot of the current root before an edit, Undo/Redo swap the live
// root with the top of one stack while pushing onto the other. Any
// StoreUndo call discards the redo stack outright (spec.md's adopted
// variant: a fresh edit after an undo abandons the undone branch rather
// than grafting it into a redo tree).
type undoGraph[T Item[T, M], M Metrics[M]] struct {
	undoStack []undoFrame[T, M]
	redoStack []undoFrame[T, M]
	maxDepth  int

	// redoBase is the root the last Undo or Redo installed; Redo refuses
	// to run once the live root differs from it.
	redoBase *node[T, M]
}

func newUndoGraph[T Item[T, M], M Metrics[M]]() *undoGraph[T, M] {
	return &undoGraph[T, M]{maxDepth: defaultMaxUndoDepth}
}

func (r *Rope[T, M]) undoStore() *undoGraph[T, M] {
	if r.undo == nil {
		r.undo = newUndoGraph[T, M]()
	}
	return r.undo
}

// SetMaxUndoDepth bounds how many undo frames are retained; 0 means
// unbounded. Excess frames are dropped oldest-first on the next StoreUndo.
func (r *Rope[T, M]) SetMaxUndoDepth(depth int) {
	r.undoStore().maxDepth = depth
}

// StoreUndo snapshots the current root under tag, for later Undo. It
// discards any pending redo history: the tree has diverged from whatever
// branch a prior Undo came from.
func (r *Rope[T, M]) StoreUndo(tag Tag) {
	ug := r.undoStore()
	ug.undoStack = append(ug.undoStack, undoFrame[T, M]{root: r.root, tag: tag})
	ug.redoStack = nil
	if ug.maxDepth > 0 && len(ug.undoStack) > ug.maxDepth {
		drop := len(ug.undoStack) - ug.maxDepth
		ug.undoStack = append(ug.undoStack[:0], ug.undoStack[drop:]...)
	}
}

// CanUndo reports whether Undo has a frame to restore.
func (r *Rope[T, M]) CanUndo() bool {
	return r.undo != nil && len(r.undo.undoStack) > 0
}

// CanRedo reports whether Redo has a frame to restore.
func (r *Rope[T, M]) CanRedo() bool {
	return r.undo != nil && len(r.undo.redoStack) > 0
}

// Undo restores the most recently stored root, pushing the current (about
// to be discarded) root onto the redo stack tagged with nowTag. It returns
// the tag that was associated with the restored snapshot, or ErrStop if
// there is no undo history. The marker cache is recomputed lazily against
// the restored tree on next access (I5).
func (r *Rope[T, M]) Undo(nowTag Tag) (Tag, error) {
	ug := r.undoStore()
	if len(ug.undoStack) == 0 {
		return "", ErrStop
	}
	last := len(ug.undoStack) - 1
	frame := ug.undoStack[last]
	ug.undoStack = ug.undoStack[:last]
	ug.redoStack = append(ug.redoStack, undoFrame[T, M]{root: r.root, tag: nowTag})
	r.setRoot(frame.root)
	ug.redoBase = r.root
	return frame.tag, nil
}

// Redo restores the most recently undone root, returning it to the undo
// stack so a subsequent Undo can reach it again. Returns ErrStop if there
// is no redo history (either none was ever undone, or an intervening
// StoreUndo discarded it), or if the tree was mutated since the last Undo
// or Redo.
func (r *Rope[T, M]) Redo() (Tag, error) {
	ug := r.undoStore()
	if len(ug.redoStack) == 0 || r.root != ug.redoBase {
		return "", ErrStop
	}
	last := len(ug.redoStack) - 1
	frame := ug.redoStack[last]
	ug.redoStack = ug.redoStack[:last]
	ug.undoStack = append(ug.undoStack, undoFrame[T, M]{root: r.root, tag: frame.tag})
	r.setRoot(frame.root)
	ug.redoBase = r.root
	return frame.tag, nil
}

// ClearHistory discards both the undo and redo stacks without touching the
// live tree.
func (r *Rope[T, M]) ClearHistory() {
	if r.undo == nil {
		return
	}
	r.undo.undoStack = nil
	r.undo.redoStack = nil
}
