// Package seed validates raw seed input and carries it in the normalized
// forms the derivation schemes consume.
package seed

import (
	"errors"
	"fmt"
)

// QubicLength is the exact character count a Qubic-style seed must have.
const QubicLength = 55

var ErrInvalidLength = errors.New("qubic seed must be exactly 55 characters")

// InvalidCharacterError reports the first seed character outside a..z.
type InvalidCharacterError struct {
	Position int
	Char     byte
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("qubic seed character at position %d is not a lowercase letter: %q", e.Position, e.Char)
}

// Kind distinguishes the two supported seed shapes.
type Kind uint8

const (
	// Passphrase is an arbitrary byte string hashed as-is.
	Passphrase Kind = iota
	// Qubic is a 55-character lowercase seed carried both as raw ASCII and
	// as zero-based alphabet indices.
	Qubic
)

func (k Kind) String() string {
	switch k {
	case Passphrase:
		return "passphrase"
	case Qubic:
		return "qubic"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Seed is an immutable normalized seed. The zero value is the empty
// passphrase, which is itself a legal seed.
type Seed struct {
	kind    Kind
	raw     []byte
	indexed []byte
}

// NewPassphrase normalizes an arbitrary byte string. Every byte string is a
// valid passphrase, the empty one included.
func NewPassphrase(raw []byte) Seed {
	return Seed{kind: Passphrase, raw: append([]byte(nil), raw...)}
}

// ParseQubic validates a 55-character lowercase seed and produces both
// normalized forms: the raw ASCII bytes and the 0-25 alphabet indices.
// The index form is what the documented Qubic derivation hashes; handing it
// the ASCII bytes instead yields a different (historical) key.
func ParseQubic(s string) (Seed, error) {
	if len(s) != QubicLength {
		return Seed{}, ErrInvalidLength
	}
	indexed := make([]byte, QubicLength)
	for i := 0; i < QubicLength; i++ {
		c := s[i]
		if c < 'a' || c > 'z' {
			return Seed{}, &InvalidCharacterError{Position: i, Char: c}
		}
		indexed[i] = c - 'a'
	}
	return Seed{kind: Qubic, raw: []byte(s), indexed: indexed}, nil
}

// Kind reports which shape this seed has.
func (s Seed) Kind() Kind {
	return s.kind
}

// Bytes returns a copy of the raw byte form: the UTF-8 passphrase bytes, or
// the ASCII characters of a Qubic seed.
func (s Seed) Bytes() []byte {
	return append([]byte(nil), s.raw...)
}

// AlphabetIndices returns a copy of the 0-25 index encoding. It reports
// false for passphrase seeds, which have no index form.
func (s Seed) AlphabetIndices() ([]byte, bool) {
	if s.kind != Qubic {
		return nil, false
	}
	return append([]byte(nil), s.indexed...), true
}

// CacheKey returns a stable key identifying this seed by kind and content,
// suitable for memoizing derivations.
func (s Seed) CacheKey() string {
	return string(rune(s.kind)) + ":" + string(s.raw)
}
