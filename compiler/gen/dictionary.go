package gen

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed nouns.csv
var builtinNouns []byte

// Dictionary maps plural nouns to their singular form. It is loaded on the
// first lookup and lives for one run.
type Dictionary struct {
	path    string
	singles map[string]string
	err     error
}

// NewDictionary returns a dictionary reading "singular,plural" pairs from
// the CSV file at path, or from the builtin list when path is empty.
func NewDictionary(path string) *Dictionary {
	return &Dictionary{path: path}
}

// Singular returns the singular form of noun. The lookup is by the
// lowercased noun; unknown nouns are returned unchanged.
func (d *Dictionary) Singular(noun string) (string, error) {
	if err := d.load(); err != nil {
		return "", err
	}
	if s, ok := d.singles[strings.ToLower(noun)]; ok {
		return s, nil
	}
	return noun, nil
}

// Len returns the number of known plurals.
func (d *Dictionary) Len() (int, error) {
	if err := d.load(); err != nil {
		return 0, err
	}
	return len(d.singles), nil
}

func (d *Dictionary) load() error {
	if len(d.singles) > 0 || d.err != nil {
		return d.err
	}
	src := builtinNouns
	if d.path != "" {
		b, err := os.ReadFile(d.path)
		if err != nil {
			d.err = NewConfigError("Nouns", d.path, err.Error())
			return d.err
		}
		src = b
	}
	singles, err := parseNouns(bytes.NewReader(src))
	if err != nil {
		d.err = NewConfigError("Nouns", d.path, err.Error())
		return d.err
	}
	if len(singles) == 0 {
		// Keep the map non-empty so the file is read once.
		singles[""] = ""
	}
	d.singles = singles
	return nil
}

// parseNouns reads "singular,plural" records. Records with more fields take
// the first as the singular and the last as the plural.
func parseNouns(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	singles := make(map[string]string)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return singles, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse nouns: %w", err)
		}
		if len(rec) < 2 {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("parse nouns: line %d: want singular,plural", line)
		}
		singles[strings.ToLower(rec[len(rec)-1])] = rec[0]
	}
}
