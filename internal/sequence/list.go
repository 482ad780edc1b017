// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sequence

// List is the live, reorderable sequence of claim features. It remembers
// the last model-proposed order so user edits can be reverted. Reordering
// is restricted to adjacent swaps: membership never changes, only position.
type List struct {
	entries  []Entry
	original []Entry
	modified bool
}

// NewList builds a List from a parsed model ordering. The given entries
// become both the live order and the reset point.
func NewList(entries []Entry) *List {
	l := &List{}
	l.SetModelOrder(entries)
	return l
}

// SetModelOrder replaces the model-proposed order with a fresh snapshot.
// Regenerating the model output overwrites the previous snapshot; there is
// a single latest reset point, never a stack. The live order is replaced
// and the custom-order flag cleared.
func (l *List) SetModelOrder(entries []Entry) {
	l.original = append([]Entry(nil), entries...)
	l.entries = append([]Entry(nil), entries...)
	l.modified = false
}

// MoveUp swaps the entry at i with its predecessor. No-op at the top
// boundary or for an invalid index; returns whether a swap happened.
func (l *List) MoveUp(i int) bool {
	if i <= 0 || i >= len(l.entries) {
		return false
	}
	l.entries[i-1], l.entries[i] = l.entries[i], l.entries[i-1]
	l.modified = true
	return true
}

// MoveDown swaps the entry at i with its successor. No-op at the bottom
// boundary or for an invalid index; returns whether a swap happened.
func (l *List) MoveDown(i int) bool {
	if i < 0 || i >= len(l.entries)-1 {
		return false
	}
	l.entries[i], l.entries[i+1] = l.entries[i+1], l.entries[i]
	l.modified = true
	return true
}

// ResetToOriginal restores the last model-proposed order and clears the
// custom-order flag.
func (l *List) ResetToOriginal() {
	l.entries = append([]Entry(nil), l.original...)
	l.modified = false
}

// CurrentOrder returns a copy of the live order, used both for display and
// for final persistence.
func (l *List) CurrentOrder() []Entry {
	return append([]Entry(nil), l.entries...)
}

// CustomOrderModified reports whether the live order differs from the model
// proposal by user action.
func (l *List) CustomOrderModified() bool {
	return l.modified
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.entries)
}
