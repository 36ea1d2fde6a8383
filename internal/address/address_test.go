package address

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func pubKey(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad pubkey literal: %v", err)
	}
	return b
}

const (
	emptyCompressedPub   = "03a34b99f22c790c4e36b2b3c2c35a36db06226e41c692fc82b8b56ac1c540c5bd"
	emptyUncompressedPub = "04a34b99f22c790c4e36b2b3c2c35a36db06226e41c692fc82b8b56ac1c540c5bd" +
		"5b8dec5235a0fa8722476c7709c02559e3aa73aa03918ba2d492eea75abea235"
)

func TestKnownBrainwalletAddresses(t *testing.T) {
	// Brainwallet of the empty passphrase: sha256("") as private key.
	comp := FromPublicKeyEncoding(pubKey(t, emptyCompressedPub), MainnetP2PKH)
	unc := FromPublicKeyEncoding(pubKey(t, emptyUncompressedPub), MainnetP2PKH)
	if comp != "1F3sAm6ZtwLAUnj7d38pGFxtP3RVEvtsbV" {
		t.Fatalf("compressed address = %s", comp)
	}
	if unc != "1HZwkjkeaoZfTSaJxDw6aKkxp45agDiEzN" {
		t.Fatalf("uncompressed address = %s", unc)
	}
}

func TestSatoshiBrainwalletAddresses(t *testing.T) {
	compPub := pubKey(t, "03c4f00a8aa87f595b60b1e390f17fc64d12c1a1f505354a7eea5f2ee353e427b7")
	uncPub := pubKey(t, "04c4f00a8aa87f595b60b1e390f17fc64d12c1a1f505354a7eea5f2ee353e427b7"+
		"fc0ac3f520dfd4946ab28ac5fa3173050f90c6b2d186333e998d7777fdaa52d5")
	if got := FromPublicKeyEncoding(compPub, MainnetP2PKH); got != "1xm4vFerV3pSgvBFkyzLgT1Ew3HQYrS1V" {
		t.Fatalf("compressed address = %s", got)
	}
	if got := FromPublicKeyEncoding(uncPub, MainnetP2PKH); got != "1ADJqstUMBB5zFquWg19UqZ7Zc6ePCpzLE" {
		t.Fatalf("uncompressed address = %s", got)
	}
}

func TestEncodingBifurcation(t *testing.T) {
	comp := FromPublicKeyEncoding(pubKey(t, emptyCompressedPub), MainnetP2PKH)
	unc := FromPublicKeyEncoding(pubKey(t, emptyUncompressedPub), MainnetP2PKH)
	if comp == unc {
		t.Fatal("compressed and uncompressed encodings must yield distinct addresses")
	}
	for _, addr := range []string{comp, unc} {
		version, _, err := Decode(addr)
		if err != nil {
			t.Fatalf("decode %s: %v", addr, err)
		}
		if version != MainnetP2PKH {
			t.Fatalf("decode %s: version = %#02x", addr, version)
		}
	}
}

func TestVersionByteSelectsNetwork(t *testing.T) {
	// Same key under the testnet P2PKH version byte.
	got := FromPublicKeyEncoding(pubKey(t, emptyCompressedPub), 0x6f)
	if got != "muZpTpBYhxmRFuCjLc7C6BBDF32C8XVJUi" {
		t.Fatalf("testnet address = %s", got)
	}
}

func TestLeadingZeroRule(t *testing.T) {
	// All-zero Hash160 under version 0x00: the payload plus checksum starts
	// with 21 zero bytes, so the address starts with 21 '1' glyphs.
	got := FromHash160([20]byte{}, MainnetP2PKH)
	if got != "1111111111111111111114oLvT2" {
		t.Fatalf("zero hash160 address = %s", got)
	}
	if !strings.HasPrefix(got, strings.Repeat("1", 21)) || strings.HasPrefix(got, strings.Repeat("1", 22)) {
		t.Fatalf("leading zero glyph count wrong in %s", got)
	}

	// A single leading zero byte inside the hash adds exactly one more glyph
	// after the version's.
	var h [20]byte
	for i := 1; i < 20; i++ {
		h[i] = 0x11
	}
	got = FromHash160(h, MainnetP2PKH)
	if got != "11MSp9Dq1gadqWMGiytTxHRVkfCkmRxKT" {
		t.Fatalf("leading zero hash160 address = %s", got)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	var h [20]byte
	for i := range h {
		h[i] = byte(i * 7)
	}
	addr := FromHash160(h, MainnetP2PKH)
	version, decoded, err := Decode(addr)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if version != MainnetP2PKH || decoded != h {
		t.Fatalf("round trip mismatch: version=%#02x hash=%x", version, decoded)
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	addr := FromHash160([20]byte{1, 2, 3}, MainnetP2PKH)

	// Flip one glyph to another alphabet member.
	corrupted := []byte(addr)
	if corrupted[len(corrupted)-1] == 'x' {
		corrupted[len(corrupted)-1] = 'y'
	} else {
		corrupted[len(corrupted)-1] = 'x'
	}
	if _, _, err := Decode(string(corrupted)); !errors.Is(err, ErrBadChecksum) && !errors.Is(err, ErrMalformedAddress) {
		t.Fatalf("corrupted address: err = %v", err)
	}

	// Base58 but wrong payload size.
	if _, _, err := Decode("1F3s"); !errors.Is(err, ErrMalformedAddress) {
		t.Fatalf("short address: err = %v", err)
	}

	// Characters outside the alphabet.
	if _, _, err := Decode("0OIl"); !errors.Is(err, ErrMalformedAddress) {
		t.Fatalf("non-alphabet address: err = %v", err)
	}
}
