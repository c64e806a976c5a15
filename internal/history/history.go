// Package history implements the undo/redo stack over document
// snapshots. Snapshots are frozen document values; pushing a document
// that is value-equal to the present is a no-op, so shape-equal edits
// produced by rebuilding nodes do not pollute the stack.
package history

import (
	"github.com/rxtech-lab/argo-designer/internal/document"
	"github.com/rxtech-lab/argo-designer/internal/types"
)

// History is the {past, present, future} tuple. All operations are pure
// and return a new History value.
type History struct {
	Past    []types.Document
	Present types.Document
	Future  []types.Document
}

// New creates a history with the given initial present and empty stacks.
func New(present types.Document) History {
	return History{
		Past:    []types.Document{},
		Present: present,
		Future:  []types.Document{},
	}
}

// Push records a new present. When next is value-equal to the current
// present (deep equality, ids included) the history is returned
// unchanged; otherwise the present moves to the past and the future is
// cleared.
func (h History) Push(next types.Document) History {
	if h.Present.Equal(next) {
		return h
	}

	past := make([]types.Document, 0, len(h.Past)+1)
	past = append(past, h.Past...)
	past = append(past, h.Present)

	return History{
		Past:    past,
		Present: next,
		Future:  []types.Document{},
	}
}

// Undo shifts the present onto the future and restores the most recent
// past frame. Returns the input unchanged when the past is empty.
func (h History) Undo() History {
	if !h.CanUndo() {
		return h
	}

	future := make([]types.Document, 0, len(h.Future)+1)
	future = append(future, h.Present)
	future = append(future, h.Future...)

	past := make([]types.Document, len(h.Past)-1)
	copy(past, h.Past[:len(h.Past)-1])

	return History{
		Past:    past,
		Present: h.Past[len(h.Past)-1],
		Future:  future,
	}
}

// Redo shifts the present onto the past and restores the nearest future
// frame. Returns the input unchanged when the future is empty.
func (h History) Redo() History {
	if !h.CanRedo() {
		return h
	}

	past := make([]types.Document, 0, len(h.Past)+1)
	past = append(past, h.Past...)
	past = append(past, h.Present)

	future := make([]types.Document, len(h.Future)-1)
	copy(future, h.Future[1:])

	return History{
		Past:    past,
		Present: h.Future[0],
		Future:  future,
	}
}

// SetPresent replaces the present without recording the previous value
// as an undoable frame. When resetHistory is true both stacks are
// cleared (import and preset load use this).
func (h History) SetPresent(next types.Document, resetHistory bool) History {
	if resetHistory {
		return New(next)
	}

	return History{
		Past:    h.Past,
		Present: next,
		Future:  h.Future,
	}
}

// CanUndo reports whether an undo frame is available.
func (h History) CanUndo() bool {
	return len(h.Past) > 0
}

// CanRedo reports whether a redo frame is available.
func (h History) CanRedo() bool {
	return len(h.Future) > 0
}

// Reconcile drops a node selection whose node no longer exists in the
// document. Section-only selections survive frame changes.
func Reconcile(selection *types.Selection, doc types.Document) *types.Selection {
	if selection == nil {
		return nil
	}

	if !selection.HasNode() {
		return selection
	}

	if document.ContainsID(doc.Forest(selection.Section), selection.NodeID) {
		return selection
	}

	return nil
}
