package types

// Point is a pointer position in host coordinates.
type Point struct {
	X, Y int
}

// MouseButton identifies the pointer button of an event.
type MouseButton int

const (
	ButtonPrimary MouseButton = iota
	ButtonSecondary
	ButtonMiddle
)

// PointerEvent is a pointer press, release, click, or move over a slot.
// Slot is nil when the pointer is not over a slot.
type PointerEvent struct {
	Slot     *Slot
	Button   MouseButton
	Mods     Modifiers
	Position Point
}

// DragEnterEvent is raised when a drag payload enters a slot.
type DragEnterEvent struct {
	Slot       *Slot
	Allowed    Effect
	HasPayload bool
}

// DragAction is the transport's answer to a query-continue-drag poll.
type DragAction int

const (
	DragContinue DragAction = iota
	DragDrop
	DragCancel
)

// DropEvent is raised when a payload of file paths is dropped onto a slot.
type DropEvent struct {
	Slot  *Slot
	Paths []string
	Mods  Modifiers
}
