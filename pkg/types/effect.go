package types

import "strings"

// Effect is a drag-and-drop effect. Values combine as a bit set when used as
// an allowed-effect mask.
type Effect int

// Drag-and-drop effects.
const (
	EffectNone Effect = 0
	EffectCopy Effect = 1 << iota
	EffectMove
	EffectLink
)

// Has reports whether every effect in o is present in e.
func (e Effect) Has(o Effect) bool {
	return o != EffectNone && e&o == o
}

func (e Effect) String() string {
	if e == EffectNone {
		return "none"
	}
	var parts []string
	if e&EffectCopy != 0 {
		parts = append(parts, "copy")
	}
	if e&EffectMove != 0 {
		parts = append(parts, "move")
	}
	if e&EffectLink != 0 {
		parts = append(parts, "link")
	}
	return strings.Join(parts, "|")
}

// TouchType is the mutation semantics applied to a slot write.
type TouchType int

const (
	// TouchNone is a silent overwrite with no move or swap semantics.
	TouchNone TouchType = iota
	// TouchSet overwrites the slot.
	TouchSet
	// TouchSwap exchanges the slot with the drag source.
	TouchSwap
)

func (t TouchType) String() string {
	switch t {
	case TouchSet:
		return "set"
	case TouchSwap:
		return "swap"
	default:
		return "none"
	}
}

// DropModifier is the placement policy selected by input modifiers at drop
// time.
type DropModifier int

const (
	DropMove DropModifier = iota
	DropClone
	DropOverwrite
	DropCloneOverwrite
)

// DropModifierFor derives the drop policy from the held modifiers: Shift
// clones, Alt overwrites, both together clone and overwrite.
func DropModifierFor(m Modifiers) DropModifier {
	shift := m&ModShift != 0
	alt := m&ModAlt != 0
	switch {
	case shift && alt:
		return DropCloneOverwrite
	case shift:
		return DropClone
	case alt:
		return DropOverwrite
	default:
		return DropMove
	}
}

// Clones reports whether the drop leaves the sources untouched.
func (d DropModifier) Clones() bool {
	return d == DropClone || d == DropCloneOverwrite
}

// Overwrites reports whether the drop replaces occupied destination slots.
func (d DropModifier) Overwrites() bool {
	return d == DropOverwrite || d == DropCloneOverwrite
}

// Effect returns the effect a drop with this modifier answers to the
// transport.
func (d DropModifier) Effect() Effect {
	if d.Clones() {
		return EffectCopy
	}
	return EffectLink
}

func (d DropModifier) String() string {
	switch d {
	case DropClone:
		return "clone"
	case DropOverwrite:
		return "overwrite"
	case DropCloneOverwrite:
		return "clone-overwrite"
	default:
		return "move"
	}
}

// WriteBlocked explains why a record cannot be written to a slot.
type WriteBlocked int

const (
	WriteBlockedNone WriteBlocked = iota
	WriteBlockedLocked
	WriteBlockedPartyEmpty
	WriteBlockedPlaceholder
	WriteBlockedFormat
)

func (w WriteBlocked) String() string {
	switch w {
	case WriteBlockedNone:
		return "none"
	case WriteBlockedLocked:
		return "slot is locked"
	case WriteBlockedPartyEmpty:
		return "party cannot be left empty"
	case WriteBlockedPlaceholder:
		return "placeholder records are not allowed here"
	case WriteBlockedFormat:
		return "record format not accepted"
	default:
		return "blocked"
	}
}

// Modifiers is the set of modifier keys held during an input event.
type Modifiers int

const (
	ModControl Modifiers = 1 << iota
	ModShift
	ModAlt
)

// Only reports whether m is exactly the given modifier set.
func (m Modifiers) Only(o Modifiers) bool {
	return m == o
}
