package entity

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/slotshift/pkg/types"
)

// Codec decodes both transport forms of an Entity.
type Codec struct{}

var _ types.Codec = Codec{}

// Decode parses the encrypted or decrypted form. Data that is neither
// returns types.ErrUnrecognized.
func (Codec) Decode(data []byte) (types.Record, error) {
	return Decode(data)
}

// Decode parses the encrypted or decrypted form of an Entity.
func Decode(data []byte) (*Entity, error) {
	if isEncrypted(data) {
		data = decrypt(data)
		if !json.Valid(data) {
			return nil, fmt.Errorf("decrypting entity: %w", types.ErrInvalidData)
		}
	}
	if !json.Valid(data) {
		return nil, types.ErrUnrecognized
	}
	var e Entity
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, types.ErrUnrecognized
	}
	if _, ok := Lookup(e.Generation); !ok {
		return nil, types.ErrUnrecognized
	}
	return &e, nil
}
