// Package derive maps normalized seeds to 32-byte private key scalars through
// the closed set of derivation schemes.
package derive

import (
	"errors"

	"github.com/RideMatch1/qubic-church-sub003/internal/digest"
	"github.com/RideMatch1/qubic-church-sub003/internal/seed"
)

// ErrSchemeSeedMismatch reports a sponge scheme applied to a seed that has no
// Qubic shape. The sponge derivations are defined over 55-character seeds
// only; silently hashing a passphrase would test a key nobody documented.
var ErrSchemeSeedMismatch = errors.New("sponge schemes require a qubic-shaped seed")

// PrivateKey derives the 32-byte private key for a seed under a scheme.
// The derivation is pure: the same inputs always produce the same bytes.
func PrivateKey(sd seed.Seed, sc Scheme) ([32]byte, error) {
	var k [32]byte
	switch sc.Kind {
	case SingleHash:
		k = digest.Sum256(sd.Bytes())
	case DoubleHash:
		k = digest.DoubleSum256(sd.Bytes())
	case DoubleSponge:
		idx, ok := sd.AlphabetIndices()
		if !ok {
			return [32]byte{}, ErrSchemeSeedMismatch
		}
		first := digest.Sponge256(idx)
		k = digest.Sponge256(first[:])
	case DoubleSpongeRaw:
		if sd.Kind() != seed.Qubic {
			return [32]byte{}, ErrSchemeSeedMismatch
		}
		first := digest.Sponge256(sd.Bytes())
		k = digest.Sponge256(first[:])
	default:
		return [32]byte{}, ErrUnknownScheme
	}
	applyTransform(&k, sc.Transform)
	return k, nil
}

func applyTransform(k *[32]byte, t PostTransform) {
	if t.isIdentity() {
		return
	}
	for i := range k {
		k[i] = k[i] + t.Step*byte(i+1) + t.Xor
	}
}
