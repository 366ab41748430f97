// Package selection tracks the slots marked for a multi-slot transfer.
//
// A Set is bound to a single source viewer while it has members. Adding a
// slot from another viewer is refused; the binding is released when the set
// becomes empty. Every mutating call that changes the set notifies listeners
// exactly once.
package selection

import "github.com/mesh-intelligence/slotshift/pkg/types"

// Set is an insertion-ordered set of slots bound to one viewer.
type Set struct {
	slots     []types.Slot
	index     map[types.Slot]int
	viewer    types.Viewer
	listeners []func()
}

// New returns an empty Set.
func New() *Set {
	return &Set{index: make(map[types.Slot]int)}
}

// OnChange registers fn to run after every change to the set.
func (s *Set) OnChange(fn func()) {
	s.listeners = append(s.listeners, fn)
}

// Add inserts slot. It returns false without mutating when slot belongs to a
// viewer other than the bound one, or when slot is already selected.
func (s *Set) Add(slot types.Slot) bool {
	if s.viewer != nil && slot.View != s.viewer {
		return false
	}
	if _, ok := s.index[slot]; ok {
		return false
	}
	s.index[slot] = len(s.slots)
	s.slots = append(s.slots, slot)
	s.viewer = slot.View
	s.notify()
	return true
}

// Remove deletes slot. It returns false when slot is not selected.
func (s *Set) Remove(slot types.Slot) bool {
	i, ok := s.index[slot]
	if !ok {
		return false
	}
	delete(s.index, slot)
	s.slots = append(s.slots[:i], s.slots[i+1:]...)
	for j := i; j < len(s.slots); j++ {
		s.index[s.slots[j]] = j
	}
	if len(s.slots) == 0 {
		s.viewer = nil
	}
	s.notify()
	return true
}

// Toggle removes slot when selected and adds it otherwise. It reports
// whether the set changed.
func (s *Set) Toggle(slot types.Slot) bool {
	if s.Contains(slot) {
		return s.Remove(slot)
	}
	return s.Add(slot)
}

// Clear empties the set. Clearing an empty set does not notify.
func (s *Set) Clear() {
	if len(s.slots) == 0 {
		return
	}
	s.slots = nil
	s.index = make(map[types.Slot]int)
	s.viewer = nil
	s.notify()
}

// Contains reports whether slot is selected.
func (s *Set) Contains(slot types.Slot) bool {
	_, ok := s.index[slot]
	return ok
}

// All returns the selected slots in insertion order. The returned slice is
// a copy.
func (s *Set) All() []types.Slot {
	out := make([]types.Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Count returns the number of selected slots.
func (s *Set) Count() int {
	return len(s.slots)
}

// Viewer returns the bound viewer, or nil when the set is empty.
func (s *Set) Viewer() types.Viewer {
	return s.viewer
}

func (s *Set) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}
