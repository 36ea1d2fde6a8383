// Package keys lifts 32-byte private key scalars onto secp256k1 and exposes
// the two canonical public key encodings.
package keys

import (
	"errors"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// ErrScalarOutOfRange reports a 32-byte value that is zero or not below the
// secp256k1 group order. Derivation schemes can legally produce such values;
// they must be skipped, never reduced or mutated into a different key.
var ErrScalarOutOfRange = errors.New("private key scalar is zero or not below the curve order")

// PublicKey is the derived curve point. Both serializations are computed once
// at construction and returned by value afterwards.
type PublicKey struct {
	compressed   [33]byte
	uncompressed [65]byte
}

// FromPrivateKey derives the secp256k1 public key for a 32-byte scalar.
func FromPrivateKey(k [32]byte) (*PublicKey, error) {
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetBytes(&k); overflow != 0 {
		return nil, ErrScalarOutOfRange
	}
	if scalar.IsZero() {
		return nil, ErrScalarOutOfRange
	}
	pub := secp256k1.NewPrivateKey(&scalar).PubKey()

	var out PublicKey
	copy(out.compressed[:], pub.SerializeCompressed())
	copy(out.uncompressed[:], pub.SerializeUncompressed())
	return &out, nil
}

// Compressed returns the 33-byte parity-prefix encoding.
func (p *PublicKey) Compressed() [33]byte {
	return p.compressed
}

// Uncompressed returns the 65-byte 0x04-prefix encoding.
func (p *PublicKey) Uncompressed() [65]byte {
	return p.uncompressed
}
