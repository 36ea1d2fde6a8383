// Package address encodes public keys and Hash160 payloads as Base58Check
// P2PKH addresses, and decodes corpus addresses back to their payloads.
package address

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/RideMatch1/qubic-church-sub003/internal/digest"
)

// MainnetP2PKH is the Bitcoin mainnet pay-to-public-key-hash version byte.
// It is the default everywhere a version is not given explicitly; any other
// network is selected by passing its version byte, never by editing code.
const MainnetP2PKH byte = 0x00

const (
	hash160Length  = 20
	checksumLength = 4
	payloadLength  = 1 + hash160Length + checksumLength
)

var (
	ErrMalformedAddress = errors.New("address is not a 25-byte base58check payload")
	ErrBadChecksum      = errors.New("address checksum mismatch")
)

// FromPublicKeyEncoding encodes either public key serialization (compressed
// or uncompressed) as a versioned Base58Check address. The two encodings of
// the same key hash to different Hash160 values and therefore produce two
// distinct addresses.
func FromPublicKeyEncoding(pubKeyEncoding []byte, version byte) string {
	return FromHash160(digest.Hash160(pubKeyEncoding), version)
}

// FromHash160 encodes a 20-byte public key hash under a version byte. Total:
// every Hash160/version pair has exactly one address.
func FromHash160(h [20]byte, version byte) string {
	payload := make([]byte, 0, payloadLength)
	payload = append(payload, version)
	payload = append(payload, h[:]...)
	checksum := digest.DoubleSum256(payload)
	payload = append(payload, checksum[:checksumLength]...)
	return base58.Encode(payload)
}

// Decode parses a Base58Check address back to its version byte and Hash160
// and verifies the checksum. The private key is not recoverable from an
// address; this exists so reference corpora given as address strings can be
// indexed by their underlying payloads.
func Decode(addr string) (version byte, h [20]byte, err error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return 0, [20]byte{}, fmt.Errorf("%w: %v", ErrMalformedAddress, err)
	}
	if len(raw) != payloadLength {
		return 0, [20]byte{}, ErrMalformedAddress
	}
	checksum := digest.DoubleSum256(raw[:1+hash160Length])
	for i := 0; i < checksumLength; i++ {
		if raw[1+hash160Length+i] != checksum[i] {
			return 0, [20]byte{}, ErrBadChecksum
		}
	}
	copy(h[:], raw[1:1+hash160Length])
	return raw[0], h, nil
}
