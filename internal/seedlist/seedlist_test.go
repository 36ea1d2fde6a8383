package seedlist

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tyler-smith/go-bip39"
)

const validMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestReadShapes(t *testing.T) {
	qubic := strings.Repeat("a", 55)
	input := strings.NewReader(strings.Join([]string{
		"# comment",
		"",
		"correct horse battery staple",
		qubic,
		"passphrase:" + qubic,
		"qubic:tooshort",
	}, "\n"))

	entries, err := Read(input)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("entries = %d", len(entries))
	}

	if entries[0].Shape != ShapePassphrase || string(entries[0].Passphrase) != "correct horse battery staple" {
		t.Fatalf("entry 0 = %+v", entries[0])
	}
	if entries[1].Shape != ShapeQubic || entries[1].Qubic != qubic {
		t.Fatalf("entry 1 = %+v", entries[1])
	}
	// Explicit prefix overrides the 55-lowercase heuristic.
	if entries[2].Shape != ShapePassphrase || string(entries[2].Passphrase) != qubic {
		t.Fatalf("entry 2 = %+v", entries[2])
	}
	// Invalid qubic text flows through for the matcher to reject.
	if entries[3].Shape != ShapeQubic || entries[3].Qubic != "tooshort" {
		t.Fatalf("entry 3 = %+v", entries[3])
	}
	if entries[3].Line != 6 {
		t.Fatalf("entry 3 line = %d", entries[3].Line)
	}
}

func TestReadExpandsMnemonic(t *testing.T) {
	entries, err := Read(strings.NewReader("mnemonic:" + validMnemonic + "\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	want := bip39.NewSeed(validMnemonic, "")
	if !bytes.Equal(entries[0].Passphrase, want) {
		t.Fatal("mnemonic expansion mismatch")
	}
	if len(entries[0].Passphrase) != 64 {
		t.Fatalf("seed length = %d", len(entries[0].Passphrase))
	}
}

func TestReadRejectsInvalidMnemonic(t *testing.T) {
	_, err := Read(strings.NewReader("mnemonic:not a real mnemonic\n"))
	if !errors.Is(err, ErrInvalidMnemonic) {
		t.Fatalf("err = %v", err)
	}
}
