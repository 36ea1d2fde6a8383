// Package corpus holds the read-only reference set of historical addresses
// and public keys that derived candidates are matched against.
package corpus

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/RideMatch1/qubic-church-sub003/internal/address"
	"github.com/RideMatch1/qubic-church-sub003/internal/digest"
)

// DefaultModuli is the residue system the corpus metadata uses for its own
// sum invariants. A corpus built without explicit moduli uses this set.
var DefaultModuli = []int{9, 27, 121}

var (
	ErrEmptyAddress     = errors.New("reference record has an empty address")
	ErrInvalidPublicKey = errors.New("reference public key is not a 33- or 65-byte encoding")
)

// Record is one reference entry. Hash160 and ByteSum are precomputed at build
// time so matching never re-derives them.
type Record struct {
	Address string
	PubKey  []byte
	Label   string
	Hash160 [20]byte
	ByteSum int
}

// Corpus is immutable after Build and safe to share across any number of
// matcher workers without locking.
type Corpus struct {
	records   []Record
	moduli    []int
	byAddress map[string]int
	byPubKey  map[string]int
	byResidue map[int]map[int][]int
}

// Len reports the number of reference records.
func (c *Corpus) Len() int {
	return len(c.records)
}

// Moduli returns a copy of the residue moduli this corpus was built with.
func (c *Corpus) Moduli() []int {
	return append([]int(nil), c.moduli...)
}

// LookupAddress finds a record by its exact address string.
func (c *Corpus) LookupAddress(addr string) (Record, bool) {
	i, ok := c.byAddress[addr]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// LookupPubKey finds a record by an exact public key encoding.
func (c *Corpus) LookupPubKey(enc []byte) (Record, bool) {
	i, ok := c.byPubKey[string(enc)]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// NearestBySum finds the reference record whose Hash160 byte-sum shares a
// residue with sum under one of the corpus moduli. It returns the record with
// the smallest absolute byte-sum difference across all moduli; ties prefer
// the smaller modulus. ok is false when no modulus produces a hit.
func (c *Corpus) NearestBySum(sum int) (rec Record, modulus, distance int, ok bool) {
	bestDistance := -1
	for _, m := range c.moduli {
		indices := c.byResidue[m][sum%m]
		for _, i := range indices {
			d := sum - c.records[i].ByteSum
			if d < 0 {
				d = -d
			}
			if bestDistance < 0 || d < bestDistance {
				rec, modulus, distance, ok = c.records[i], m, d, true
				bestDistance = d
			}
		}
	}
	return rec, modulus, distance, ok
}

// Builder accumulates records and produces an immutable Corpus. It is not
// safe for concurrent use; build the corpus once, then share it.
type Builder struct {
	moduli    []int
	records   []Record
	byAddress map[string]int
	byPubKey  map[string]int
}

// NewBuilder starts an empty corpus over the given moduli, or DefaultModuli
// when none are given. Moduli are deduplicated and sorted; non-positive
// values are dropped.
func NewBuilder(moduli ...int) *Builder {
	if len(moduli) == 0 {
		moduli = DefaultModuli
	}
	seen := make(map[int]struct{}, len(moduli))
	cleaned := make([]int, 0, len(moduli))
	for _, m := range moduli {
		if m <= 0 {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		cleaned = append(cleaned, m)
	}
	sort.Ints(cleaned)
	return &Builder{
		moduli:    cleaned,
		byAddress: make(map[string]int),
		byPubKey:  make(map[string]int),
	}
}

// AddAddress registers a reference record given as a Base58Check address.
// The address is decoded once to precompute its Hash160 sum; duplicates are
// ignored, first label wins.
func (b *Builder) AddAddress(addr, label string) error {
	if addr == "" {
		return ErrEmptyAddress
	}
	if _, dup := b.byAddress[addr]; dup {
		return nil
	}
	_, h, err := address.Decode(addr)
	if err != nil {
		return fmt.Errorf("reference address %q: %w", addr, err)
	}
	b.records = append(b.records, Record{
		Address: addr,
		Label:   label,
		Hash160: h,
		ByteSum: byteSum(h),
	})
	b.byAddress[addr] = len(b.records) - 1
	return nil
}

// AddPublicKeyHex registers a reference record given as a hex public key in
// either encoding. Its mainnet P2PKH address is derived for display and
// address-level matching.
func (b *Builder) AddPublicKeyHex(pubHex, label string) error {
	enc, err := hex.DecodeString(pubHex)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	switch {
	case len(enc) == 33 && (enc[0] == 0x02 || enc[0] == 0x03):
	case len(enc) == 65 && enc[0] == 0x04:
	default:
		return ErrInvalidPublicKey
	}
	if _, dup := b.byPubKey[string(enc)]; dup {
		return nil
	}
	h := digest.Hash160(enc)
	addr := address.FromHash160(h, address.MainnetP2PKH)
	if _, dup := b.byAddress[addr]; dup {
		b.byPubKey[string(enc)] = b.byAddress[addr]
		return nil
	}
	b.records = append(b.records, Record{
		Address: addr,
		PubKey:  enc,
		Label:   label,
		Hash160: h,
		ByteSum: byteSum(h),
	})
	b.byPubKey[string(enc)] = len(b.records) - 1
	b.byAddress[addr] = len(b.records) - 1
	return nil
}

// Build freezes the accumulated records into a shareable Corpus. The builder
// must not be reused afterwards.
func (b *Builder) Build() *Corpus {
	byResidue := make(map[int]map[int][]int, len(b.moduli))
	for _, m := range b.moduli {
		byResidue[m] = make(map[int][]int)
	}
	for i, rec := range b.records {
		for _, m := range b.moduli {
			r := rec.ByteSum % m
			byResidue[m][r] = append(byResidue[m][r], i)
		}
	}
	return &Corpus{
		records:   b.records,
		moduli:    b.moduli,
		byAddress: b.byAddress,
		byPubKey:  b.byPubKey,
		byResidue: byResidue,
	}
}

func byteSum(h [20]byte) int {
	sum := 0
	for _, v := range h {
		sum += int(v)
	}
	return sum
}
