// Package history keeps an undo/redo stack of transform changes.
package history

import (
	"errors"
	"fmt"
	"sync"

	"object-fitter/internal/fitter"
)

// DefaultLimit is the number of records kept when New is given a non-positive limit.
const DefaultLimit = 100

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Record is one applied change: the transform of Object before and after Action.
type Record struct {
	Action string
	Object string
	Before fitter.Transform
	After  fitter.Transform
}

func (r Record) String() string {
	return fmt.Sprintf("%s (%s)", r.Action, r.Object)
}

// Stack is the undo manager. Records before Idx have been applied and can be undone;
// records from Idx on have been undone and can be redone. Recording a new change drops
// the redo tail.
type Stack struct {
	mu    sync.Mutex
	Idx   int
	Limit int
	recs  []Record
}

// New returns an empty stack keeping at most limit records.
func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{Limit: limit}
}

// RecordChange saves a change as the next one to be undone.
func (s *Stack) RecordChange(action, name string, before, after fitter.Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs[:s.Idx], Record{Action: action, Object: name, Before: before, After: after})
	if over := len(s.recs) - s.Limit; s.Limit > 0 && over > 0 {
		s.recs = append(s.recs[:0], s.recs[over:]...)
	}
	s.Idx = len(s.recs)
}

// Undo restores the Before transform of the most recent applied record through m.
// The cursor only moves when m accepts the change.
func (s *Stack) Undo(m fitter.TransformMutator) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Idx == 0 {
		return Record{}, ErrNothingToUndo
	}
	rec := s.recs[s.Idx-1]
	if err := m.SetLocalTransform(rec.Object, rec.Before.Position, rec.Before.Scale); err != nil {
		return Record{}, fmt.Errorf("undo %s: %w", rec, err)
	}
	s.Idx--
	return rec, nil
}

// Redo reapplies the After transform of the most recently undone record through m.
func (s *Stack) Redo(m fitter.TransformMutator) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Idx >= len(s.recs) {
		return Record{}, ErrNothingToRedo
	}
	rec := s.recs[s.Idx]
	if err := m.SetLocalTransform(rec.Object, rec.After.Position, rec.After.Scale); err != nil {
		return Record{}, fmt.Errorf("redo %s: %w", rec, err)
	}
	s.Idx++
	return rec, nil
}

func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Idx > 0
}

func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Idx < len(s.recs)
}

// Records returns a copy of all records, oldest first, and the current cursor.
func (s *Stack) Records() ([]Record, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.recs))
	copy(out, s.recs)
	return out, s.Idx
}

// Clear drops every record, e.g. when another scene is loaded.
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = nil
	s.Idx = 0
}

// Marker flags objects as modified for saving.
type Marker interface {
	MarkModified(name string)
}

// Recorder joins a Stack with a Marker so that a fit is both undoable and saved.
// It satisfies fitter.ChangeRecorder.
type Recorder struct {
	Stack  *Stack
	Marker Marker
}

func (r *Recorder) RecordChange(action, name string, before, after fitter.Transform) {
	r.Stack.RecordChange(action, name, before, after)
}

func (r *Recorder) MarkModified(name string) {
	if r.Marker != nil {
		r.Marker.MarkModified(name)
	}
}
