package types

// Encoding selects one of a record's two serialized transport forms.
type Encoding int

const (
	// EncodingDecrypted is the plain transport form.
	EncodingDecrypted Encoding = iota
	// EncodingEncrypted is the obfuscated transport form.
	EncodingEncrypted
)

// Extension returns the file extension used for temp files of this encoding.
func (e Encoding) Extension() string {
	if e == EncodingEncrypted {
		return "ek"
	}
	return "pk"
}

// EncodingFor maps the encrypt flag of a drag start to an Encoding.
func EncodingFor(encrypt bool) Encoding {
	if encrypt {
		return EncodingEncrypted
	}
	return EncodingDecrypted
}

// Record is the opaque entity payload held by a slot. The engine treats a
// Record as an immutable value; the classification predicates are only used
// for policy checks.
type Record interface {
	// ID returns the record's identity.
	ID() string

	// FileStem returns the file name, without extension, used when the
	// record is written to a temp file. Equal records yield equal stems.
	FileStem() string

	// Encode returns the record's serialized transport form.
	Encode(enc Encoding) ([]byte, error)

	// IsBlank reports whether the record is the empty placeholder value.
	IsBlank() bool

	// IsPlaceholder reports whether the record is a placeholder kind that
	// some destinations refuse (an unhatched egg, for example).
	IsPlaceholder() bool

	// Variant returns the region or language variant of the record.
	Variant() string

	// Format returns the record type the record is encoded for.
	Format() string
}
