// Package history contains the bounded undo/redo log of assignment mutations.
//
// The log is an arena of actions plus a cursor: entries[:cursor] can be undone,
// entries[cursor:] can be redone. Recording a new action discards the redo tail.
// Log is not safe for concurrent use; its owner serializes access.
package history

import (
	"fmt"
	"time"
)

// DefaultCapacity is the maximum number of undoable actions kept.
const DefaultCapacity = 50

// ActionKind tags a history action.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionDelete ActionKind = "delete"
)

// Snapshot is the full state of an assignment needed to restore or remove it.
type Snapshot struct {
	ID         string    `json:"id"`
	WorkItemID string    `json:"work_item_id"`
	ResourceID string    `json:"resource_id"`
	Period     time.Time `json:"period"`
	CreatedAt  time.Time `json:"created_at"`
}

// Action is one reversible mutation.
type Action struct {
	Kind       ActionKind `json:"kind"`
	Assignment Snapshot   `json:"assignment"`
	At         time.Time  `json:"at"`
}

// Inverse returns the action that reverses a.
func (a Action) Inverse() Action {
	inv := a
	if a.Kind == ActionCreate {
		inv.Kind = ActionDelete
	} else {
		inv.Kind = ActionCreate
	}
	return inv
}

// State is a read-only view of the log depths.
type State struct {
	UndoDepth int  `json:"undo_depth"`
	RedoDepth int  `json:"redo_depth"`
	CanUndo   bool `json:"can_undo"`
	CanRedo   bool `json:"can_redo"`
}

// Log is the bounded undo/redo log.
type Log struct {
	capacity int
	entries  []Action
	cursor   int
}

// NewLog creates an empty log. A non-positive capacity falls back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Record appends a new user-initiated action, clearing the redo tail and
// evicting the oldest action when the log is full.
func (l *Log) Record(a Action) {
	l.entries = append(l.entries[:l.cursor], a)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append([]Action(nil), l.entries[over:]...)
	}
	l.cursor = len(l.entries)
}

// PeekUndo returns the action the next Undo would reverse.
func (l *Log) PeekUndo() (Action, bool) {
	if l.cursor == 0 {
		return Action{}, false
	}
	return l.entries[l.cursor-1], true
}

// PeekRedo returns the action the next Redo would reapply.
func (l *Log) PeekRedo() (Action, bool) {
	if l.cursor >= len(l.entries) {
		return Action{}, false
	}
	return l.entries[l.cursor], true
}

// Undo moves the cursor back one action and returns it.
func (l *Log) Undo() (Action, bool) {
	a, ok := l.PeekUndo()
	if ok {
		l.cursor--
	}
	return a, ok
}

// Redo moves the cursor forward one action and returns it.
func (l *Log) Redo() (Action, bool) {
	a, ok := l.PeekRedo()
	if ok {
		l.cursor++
	}
	return a, ok
}

// State returns the current depths.
func (l *Log) State() State {
	undo := l.cursor
	redo := len(l.entries) - l.cursor
	return State{UndoDepth: undo, RedoDepth: redo, CanUndo: undo > 0, CanRedo: redo > 0}
}

// Capacity returns the maximum number of entries.
func (l *Log) Capacity() int { return l.capacity }

// Dump is the serializable form of a Log.
type Dump struct {
	Entries []Action `json:"entries"`
	Cursor  int      `json:"cursor"`
}

// Dump returns a copy of the log contents.
func (l *Log) Dump() Dump {
	return Dump{Entries: append([]Action(nil), l.entries...), Cursor: l.cursor}
}

// Restore replaces the log contents with d, trimming to capacity from the oldest end.
func (l *Log) Restore(d Dump) error {
	if d.Cursor < 0 || d.Cursor > len(d.Entries) {
		return fmt.Errorf("history cursor %d out of range [0,%d]", d.Cursor, len(d.Entries))
	}
	entries := append([]Action(nil), d.Entries...)
	cursor := d.Cursor
	if over := len(entries) - l.capacity; over > 0 {
		entries = entries[over:]
		cursor -= over
		if cursor < 0 {
			cursor = 0
		}
	}
	l.entries = entries
	l.cursor = cursor
	return nil
}
