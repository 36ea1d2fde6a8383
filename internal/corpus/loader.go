package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// jsonRecord is the persisted shape of one reference entry in a JSON corpus
// file: at least one of address and pubkey must be set.
type jsonRecord struct {
	Address string `json:"address"`
	PubKey  string `json:"pubkey"`
	Label   string `json:"label"`
}

// LoadFile reads a corpus file into the builder, dispatching on extension:
// .json holds an array of records, anything else is treated as a
// line-delimited address list.
func LoadFile(path string, b *Builder) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := ReadJSON(f, b); err != nil {
			return fmt.Errorf("corpus file %s: %w", path, err)
		}
		return nil
	}
	if err := ReadAddressList(f, b); err != nil {
		return fmt.Errorf("corpus file %s: %w", path, err)
	}
	return nil
}

// ReadAddressList ingests one Base58Check address per line. Blank lines and
// lines starting with '#' are skipped; an address may be followed by a label
// separated by whitespace.
func ReadAddressList(r io.Reader, b *Builder) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		addr, label := text, ""
		if i := strings.IndexAny(text, " \t"); i > 0 {
			addr = text[:i]
			label = strings.TrimSpace(text[i:])
		}
		if err := b.AddAddress(addr, label); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

// ReadJSON ingests a JSON array of reference records.
func ReadJSON(r io.Reader, b *Builder) error {
	var records []jsonRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return err
	}
	for i, rec := range records {
		switch {
		case rec.Address != "":
			if err := b.AddAddress(rec.Address, rec.Label); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		case rec.PubKey != "":
			if err := b.AddPublicKeyHex(rec.PubKey, rec.Label); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
		default:
			return fmt.Errorf("record %d: %w", i, ErrEmptyAddress)
		}
	}
	return nil
}
