// Package drag implements the state machine for one pointer-drag gesture.
//
// A Session moves Idle -> Armed on a primary-button press, Armed ->
// Transporting when a drag starts, Transporting -> Resolved on drop, cancel,
// or abort, and back to Idle when the orchestrator resets it. Releasing the
// button before a drag starts is a plain click and returns to Idle.
package drag

import (
	"sync/atomic"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// State is the phase of a drag gesture.
type State int

const (
	Idle State = iota
	Armed
	Transporting
	Resolved
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Transporting:
		return "transporting"
	case Resolved:
		return "resolved"
	default:
		return "idle"
	}
}

// Resolution is the outcome of a gesture as seen at drop time. It outlives
// Reset so the goroutine blocked in the transport can classify the result
// after the drop handler has already reset the live session.
type Resolution struct {
	Source        *types.Slot
	Destination   *types.Slot
	SameLocation  bool
	PartyInvolved bool
}

// Session tracks one in-flight drag. All methods except CurrentPath and
// SetCurrentPath must be called from the event goroutine.
type Session struct {
	threshold int

	state          State
	pressedAt      types.Point
	leftButtonDown bool
	inProgress     bool
	swap           bool
	source         *types.Slot
	destination    *types.Slot
	resolution     *Resolution

	currentPath atomic.Pointer[string]
}

// New returns an idle Session. threshold is the pointer travel, in either
// axis, that turns a press into a drag.
func New(threshold int) *Session {
	if threshold <= 0 {
		threshold = types.DefaultDragThreshold
	}
	return &Session{threshold: threshold}
}

// State returns the current phase.
func (s *Session) State() State { return s.state }

// LeftButtonDown reports whether the primary button is held.
func (s *Session) LeftButtonDown() bool { return s.leftButtonDown }

// InProgress reports whether a transfer is outstanding.
func (s *Session) InProgress() bool { return s.inProgress }

// Swap reports whether the swap modifier was held at drop.
func (s *Session) Swap() bool { return s.swap }

// Source returns the drag source, or nil.
func (s *Session) Source() *types.Slot { return s.source }

// Destination returns the drop destination, or nil.
func (s *Session) Destination() *types.Slot { return s.destination }

// Press arms the session at pos.
func (s *Session) Press(pos types.Point) {
	s.leftButtonDown = true
	s.pressedAt = pos
	if s.state == Idle {
		s.state = Armed
	}
}

// Release handles a button release. Outside a transfer it is a plain click:
// the button flag (when primary) and the source are cleared.
func (s *Session) Release(primary bool) {
	if primary {
		s.leftButtonDown = false
	}
	s.source = nil
	if s.state == Armed {
		s.state = Idle
	}
}

// CanStartDrag reports whether a move to pos starts a drag: the button is
// down, no transfer is outstanding, and the pointer travelled at least the
// threshold in either axis.
func (s *Session) CanStartDrag(pos types.Point) bool {
	if !s.leftButtonDown || s.inProgress {
		return false
	}
	return abs(pos.X-s.pressedAt.X) >= s.threshold || abs(pos.Y-s.pressedAt.Y) >= s.threshold
}

// Begin moves the session to Transporting with source as the drag source.
func (s *Session) Begin(source types.Slot) error {
	if s.inProgress {
		return types.ErrTransferInProgress
	}
	s.inProgress = true
	s.source = &source
	s.destination = nil
	s.resolution = nil
	s.state = Transporting
	return nil
}

// Abort handles a drop or cancel signalled by the transport. The button and
// in-progress flags are cleared; a cancelled gesture resolves with no
// destination.
func (s *Session) Abort() {
	s.leftButtonDown = false
	s.inProgress = false
	if s.state == Transporting {
		s.state = Resolved
	}
}

// SetSwap records whether the swap modifier is held at drop.
func (s *Session) SetSwap(swap bool) { s.swap = swap }

// Resolve records the drop destination and resolves the gesture. dest may be
// nil when the drop did not land on a slot.
func (s *Session) Resolve(dest *types.Slot) Resolution {
	s.destination = dest
	s.leftButtonDown = false
	s.inProgress = false
	s.state = Resolved

	r := Resolution{
		Source:        s.source,
		Destination:   dest,
		SameLocation:  s.IsSameLocation(),
		PartyInvolved: s.IsPartyInvolved(),
	}
	s.resolution = &r
	return r
}

// TakeResolution returns and forgets the last resolution. ok is false when
// the gesture ended without a drop onto a slot.
func (s *Session) TakeResolution() (Resolution, bool) {
	r := s.resolution
	s.resolution = nil
	if r == nil {
		return Resolution{}, false
	}
	return *r, true
}

// IsSameLocation reports whether source and destination are the same slot.
func (s *Session) IsSameLocation() bool {
	return s.source != nil && s.destination != nil && *s.source == *s.destination
}

// IsPartyInvolved reports whether the source or destination is a party slot.
func (s *Session) IsPartyInvolved() bool {
	return (s.source != nil && s.source.IsParty()) || (s.destination != nil && s.destination.IsParty())
}

// Reset returns the session to Idle. The pending resolution and the current
// path are kept.
func (s *Session) Reset() {
	s.state = Idle
	s.leftButtonDown = false
	s.inProgress = false
	s.swap = false
	s.source = nil
	s.destination = nil
}

// CurrentPath returns the temp file the live transfer relies on. It is safe
// for concurrent use.
func (s *Session) CurrentPath() string {
	if p := s.currentPath.Load(); p != nil {
		return *p
	}
	return ""
}

// SetCurrentPath records the temp file the live transfer relies on. It is
// safe for concurrent use.
func (s *Session) SetCurrentPath(path string) {
	s.currentPath.Store(&path)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
