package derive

import (
	"errors"
	"fmt"
	"strings"
)

// SchemeKind names one of the closed set of seed-to-key derivations.
type SchemeKind uint8

const (
	// SingleHash derives sha256(seed).
	SingleHash SchemeKind = iota
	// DoubleHash derives sha256(sha256(seed)).
	DoubleHash
	// DoubleSponge derives sponge256(sponge256(seed)) over the 0-25 index
	// encoding of a Qubic seed. This is the documented Qubic derivation.
	DoubleSponge
	// DoubleSpongeRaw derives sponge256(sponge256(seed)) over the raw ASCII
	// bytes of a Qubic seed. Historical variant, kept as its own scheme so
	// results against old material stay reproducible.
	DoubleSpongeRaw
)

var ErrUnknownScheme = errors.New("unknown derivation scheme")

func (k SchemeKind) String() string {
	switch k {
	case SingleHash:
		return "single-hash"
	case DoubleHash:
		return "double-hash"
	case DoubleSponge:
		return "double-sponge"
	case DoubleSpongeRaw:
		return "double-sponge-raw"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(k))
	}
}

// ParseSchemeKind maps the textual scheme name back to its kind.
func ParseSchemeKind(s string) (SchemeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single-hash":
		return SingleHash, nil
	case "double-hash":
		return DoubleHash, nil
	case "double-sponge":
		return DoubleSponge, nil
	case "double-sponge-raw":
		return DoubleSpongeRaw, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, s)
	}
}

// PostTransform is the deterministic byte-wise adjustment optionally applied
// to a derived key: k'[i] = (k[i] + Step*(i+1) + Xor) mod 256. The zero value
// is the identity and means no transform.
type PostTransform struct {
	Step byte
	Xor  byte
}

func (t PostTransform) isIdentity() bool {
	return t == PostTransform{}
}

// Scheme is a comparable value: two schemes are equal exactly when their kind
// and transform parameters are equal.
type Scheme struct {
	Kind      SchemeKind
	Transform PostTransform
}

func (s Scheme) String() string {
	if s.Transform.isIdentity() {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s+t(%d,0x%02x)", s.Kind, s.Transform.Step, s.Transform.Xor)
}

// CacheKey returns a stable textual identity for memoization.
func (s Scheme) CacheKey() string {
	return fmt.Sprintf("%d/%d/%d", s.Kind, s.Transform.Step, s.Transform.Xor)
}
