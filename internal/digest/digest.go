// Package digest wraps the hash primitives the derivation pipeline is built
// on. Every function is total: any byte string, including the empty one, maps
// to a fixed-size output with no error path and no data-dependent branching.
package digest

import (
	"crypto/sha256"

	"github.com/cloudflare/circl/xof/k12"
	"golang.org/x/crypto/ripemd160"
)

// Sum256 returns the SHA-256 digest of data.
func Sum256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleSum256 returns SHA-256 applied twice, the checksum hash used by
// Base58Check and the DoubleHash derivation scheme.
func DoubleSum256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Ripemd160 returns the RIPEMD-160 digest of data.
func Ripemd160(data []byte) [20]byte {
	h := ripemd160.New()
	h.Write(data)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Sponge256 returns the first 32 bytes of KangarooTwelve over data. This is
// the sponge hash the Qubic-style seed derivation is documented against.
func Sponge256(data []byte) [32]byte {
	state := k12.NewDraft10(nil)
	state.Write(data)
	var out [32]byte
	state.Read(out[:])
	return out
}

// Hash160 returns RIPEMD-160(SHA-256(data)), the 20-byte identifier embedded
// in a P2PKH address.
func Hash160(data []byte) [20]byte {
	first := sha256.Sum256(data)
	return Ripemd160(first[:])
}
