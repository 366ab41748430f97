// Package entity is the record type of the reference host: a small creature
// entry with a species, a nickname, and a language, stored in one of several
// generation formats.
package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// Entity is one stored creature. Species 0 is the blank record.
type Entity struct {
	EntityID   string `json:"id"`
	Generation string `json:"format"`
	Species    int    `json:"species"`
	Nickname   string `json:"nickname,omitempty"`
	Language   string `json:"language,omitempty"`
	Egg        bool   `json:"egg,omitempty"`
}

var _ types.Record = (*Entity)(nil)

// New returns an entity with a fresh ID.
func New(format string, species int, nickname, language string) *Entity {
	return &Entity{
		EntityID:   generateUUID(),
		Generation: format,
		Species:    species,
		Nickname:   nickname,
		Language:   language,
	}
}

// Blank returns the blank record of format.
func Blank(format string) *Entity {
	return &Entity{Generation: format}
}

func (e *Entity) ID() string          { return e.EntityID }
func (e *Entity) Format() string      { return e.Generation }
func (e *Entity) Variant() string     { return e.Language }
func (e *Entity) IsBlank() bool       { return e.Species == 0 }
func (e *Entity) IsPlaceholder() bool { return e.Egg }

// FileStem names temp files after the species, nickname, and a short ID so
// that a user can tell dragged files apart.
func (e *Entity) FileStem() string {
	short := e.EntityID
	if len(short) > 8 {
		short = short[len(short)-8:]
	}
	name := sanitize(e.Nickname)
	if name == "" {
		name = "entity"
	}
	return fmt.Sprintf("%03d-%s-%s", e.Species, name, short)
}

// Encode returns the decrypted form (JSON) or the encrypted form.
func (e *Entity) Encode(enc types.Encoding) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshaling entity %s: %w", e.EntityID, err)
	}
	if enc == types.EncodingEncrypted {
		return encrypt(data, seedFor(e.EntityID)), nil
	}
	return data, nil
}

// Clone returns a copy of e.
func (e *Entity) Clone() *Entity {
	c := *e
	return &c
}

func (e *Entity) String() string {
	if e.IsBlank() {
		return "(empty)"
	}
	s := fmt.Sprintf("#%03d", e.Species)
	if e.Nickname != "" {
		s += " " + e.Nickname
	}
	if e.Egg {
		s += " (egg)"
	}
	return s
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '_'
		default:
			return -1
		}
	}, s)
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
