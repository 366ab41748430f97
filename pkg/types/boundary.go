package types

// Viewer exposes one group of containers (the boxes, or the party) to the
// engine. The engine holds Slots that point back at their Viewer but never
// writes through it; writes go through SlotEditor.
type Viewer interface {
	// Name identifies the viewer. Names are unique within a host.
	Name() string

	// Read returns the record at addr. Empty slots return the blank record.
	Read(addr Address) (Record, error)

	// IsEmpty reports whether addr holds no record.
	IsEmpty(addr Address) bool

	// CanWriteTo reports why rec cannot be written at addr. A nil rec probes
	// whether the slot is writable at all.
	CanWriteTo(addr Address, rec Record) WriteBlocked

	// Layout returns the container geometry.
	Layout() Layout

	// Blank returns the record used to vacate a slot.
	Blank() Record

	// RecordFormat returns the native record type of the viewer's storage.
	RecordFormat() string
}

// VariantLocked is implemented by viewers whose storage only accepts records
// of one region or language variant.
type VariantLocked interface {
	VariantLock() string
}

// SlotEditor commits slot mutations. Only the transfer orchestrator calls it.
type SlotEditor interface {
	// Set writes rec into slot with the given touch semantics.
	Set(slot Slot, rec Record, touch TouchType) error

	// Delete vacates slot by writing the viewer's blank record.
	Delete(slot Slot) error

	// View applies the host's "view" effect to slot without mutating it.
	View(slot Slot)

	// SwapContainers exchanges the contents of two whole containers.
	SwapContainers(view Viewer, a, b int) error
}

// Transport performs the drag-and-drop handoff. BeginTransfer blocks until
// the gesture is dropped, cancelled, or aborted and returns the effect chosen
// by the drop target.
type Transport interface {
	BeginTransfer(paths []string, allowed Effect) (Effect, error)
}

// Renderer swaps slot visuals and the cursor during a drag.
type Renderer interface {
	SetDragVisual(slot Slot)
	RestoreVisual(slot Slot)
	SetDragCursor(slot Slot)
	ResetCursor()
}

// Host is the windowing host: user-facing alerts and prompts plus the
// operations the engine delegates outward.
type Host interface {
	// Alert shows a blocking, user-facing message.
	Alert(msg string)

	// Confirm asks the user to proceed; false cancels.
	Confirm(msg string) bool

	// Beep signals a refused drop.
	Beep()

	// LoadContainers loads container contents from a dropped directory.
	LoadContainers(dir string) error

	// ForwardDrop passes a drop the engine does not understand to the host.
	ForwardDrop(paths []string)

	// RefreshParty redraws the party after a transfer touched it.
	RefreshParty()

	// View loads a slot into the host's detail editor.
	View(slot Slot)
}

// Codec deserializes the transport forms of records.
type Codec interface {
	// Decode parses data. It returns ErrUnrecognized when data is not a
	// record in any known form.
	Decode(data []byte) (Record, error)
}

// Converter adapts records from outside the application to a viewer's
// native record type.
type Converter interface {
	// Convert converts rec to the given record format. Failures wrap
	// ErrConversionFailed and carry a user-facing message.
	Convert(rec Record, format string) (Record, error)

	// CompatibleVariant reports whether the converted record may be stored
	// in a container locked to the given variant.
	CompatibleVariant(raw, converted Record, lock string) bool

	// EvaluateCompatibility returns advisory messages about storing rec in
	// the viewer. An empty result means no advisories.
	EvaluateCompatibility(view Viewer, rec Record) []string
}

// NopRenderer is a Renderer that draws nothing.
type NopRenderer struct{}

func (NopRenderer) SetDragVisual(Slot) {}
func (NopRenderer) RestoreVisual(Slot) {}
func (NopRenderer) SetDragCursor(Slot) {}
func (NopRenderer) ResetCursor()       {}
