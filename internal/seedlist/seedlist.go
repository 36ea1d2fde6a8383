// Package seedlist reads candidate seed material from line-delimited files
// and hands it to the matcher in the raw shapes it expects. Qubic-shaped
// lines are deliberately not validated here: the matcher classifies bad
// seeds per candidate, so one typo in a list never aborts a scan.
package seedlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var ErrInvalidMnemonic = errors.New("invalid bip39 mnemonic")

// Shape tells the matcher which seed form an entry carries.
type Shape uint8

const (
	ShapePassphrase Shape = iota
	ShapeQubic
)

// Entry is one candidate seed as read from a list. For ShapePassphrase the
// bytes are final; for ShapeQubic the text still has to pass normalization.
type Entry struct {
	Shape      Shape
	Passphrase []byte
	Qubic      string
	Line       int
}

// Read parses one seed per line. Blank lines and '#' comments are skipped.
// Prefixes select the shape explicitly:
//
//	passphrase:<text>  raw passphrase bytes
//	qubic:<text>       55-character lowercase seed
//	mnemonic:<words>   BIP39 mnemonic, expanded to its 64-byte seed
//
// An unprefixed line is taken as a Qubic seed when it is 55 lowercase
// letters, as a passphrase otherwise.
func Read(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(text, "passphrase:"):
			entries = append(entries, Entry{
				Shape:      ShapePassphrase,
				Passphrase: []byte(strings.TrimPrefix(text, "passphrase:")),
				Line:       line,
			})
		case strings.HasPrefix(text, "qubic:"):
			entries = append(entries, Entry{
				Shape: ShapeQubic,
				Qubic: strings.TrimPrefix(text, "qubic:"),
				Line:  line,
			})
		case strings.HasPrefix(text, "mnemonic:"):
			words := strings.TrimSpace(strings.TrimPrefix(text, "mnemonic:"))
			if !bip39.IsMnemonicValid(words) {
				return nil, fmt.Errorf("line %d: %w", line, ErrInvalidMnemonic)
			}
			entries = append(entries, Entry{
				Shape:      ShapePassphrase,
				Passphrase: bip39.NewSeed(words, ""),
				Line:       line,
			})
		case looksQubic(text):
			entries = append(entries, Entry{Shape: ShapeQubic, Qubic: text, Line: line})
		default:
			entries = append(entries, Entry{Shape: ShapePassphrase, Passphrase: []byte(text), Line: line})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Load reads a seed list file.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	entries, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("seed list %s: %w", path, err)
	}
	return entries, nil
}

func looksQubic(s string) bool {
	if len(s) != 55 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
