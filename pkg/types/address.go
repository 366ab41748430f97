package types

import (
	"fmt"
	"strconv"
	"strings"
)

// AddressKind selects the addressing scheme of a slot.
type AddressKind int

const (
	// AddressBox addresses a slot relative to one of several equally sized
	// containers. Multi-record placement may wrap into the next container.
	AddressBox AddressKind = iota
	// AddressParty addresses the single fixed-size party container.
	AddressParty
)

func (k AddressKind) String() string {
	switch k {
	case AddressBox:
		return "box"
	case AddressParty:
		return "party"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Address identifies a slot within a viewer: a container and an index inside
// that container. Party addresses always use container 0.
type Address struct {
	Kind      AddressKind
	Container int
	Index     int
}

// BoxAddress returns the box-relative address of index within container.
func BoxAddress(container, index int) Address {
	return Address{Kind: AddressBox, Container: container, Index: index}
}

// PartyAddress returns the address of a party slot.
func PartyAddress(index int) Address {
	return Address{Kind: AddressParty, Index: index}
}

func (a Address) String() string {
	if a.Kind == AddressParty {
		return fmt.Sprintf("party:%d", a.Index)
	}
	return fmt.Sprintf("%d:%d", a.Container, a.Index)
}

// ParseAddress parses the String form of an Address: "container:index" for
// box slots and "party:index" for party slots.
func ParseAddress(s string) (Address, error) {
	head, tail, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Address{}, fmt.Errorf("address %q: want container:index or party:index", s)
	}
	index, err := strconv.Atoi(tail)
	if err != nil || index < 0 {
		return Address{}, fmt.Errorf("address %q: invalid index", s)
	}
	if head == "party" {
		return PartyAddress(index), nil
	}
	container, err := strconv.Atoi(head)
	if err != nil || container < 0 {
		return Address{}, fmt.Errorf("address %q: invalid container", s)
	}
	return BoxAddress(container, index), nil
}

// Layout describes the fixed geometry of a viewer's containers.
type Layout struct {
	SlotsPerContainer int // capacity of every container
	ContainerCount    int // number of containers
}

// Slot is an opaque handle to one addressable slot supplied by a Viewer.
// Slot is comparable and may be used as a map key as long as the Viewer's
// dynamic type is comparable (pointer viewers are).
type Slot struct {
	View Viewer
	Addr Address
}

// IsEmpty reports whether the slot currently holds no record.
func (s Slot) IsEmpty() bool {
	return s.View.IsEmpty(s.Addr)
}

// Read returns the slot's current record.
func (s Slot) Read() (Record, error) {
	return s.View.Read(s.Addr)
}

// CanWriteTo reports why rec cannot be written to the slot. A nil rec probes
// whether the slot is writable at all.
func (s Slot) CanWriteTo(rec Record) WriteBlocked {
	return s.View.CanWriteTo(s.Addr, rec)
}

// IsParty reports whether the slot lives in the party container.
func (s Slot) IsParty() bool {
	return s.Addr.Kind == AddressParty
}

func (s Slot) String() string {
	if s.View == nil {
		return s.Addr.String()
	}
	return s.View.Name() + "/" + s.Addr.String()
}
