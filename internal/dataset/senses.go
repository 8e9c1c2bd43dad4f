// Package dataset builds word datasets for the word store.
//
// Datasets are produced ahead of time from a CSV of senses and shipped as a
// single SQLite file. Nothing in this package is used at lookup time.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bananas-dict/bananas/internal/lexicon"
)

// CSV header columns.
const (
	headerWord       = "word"
	headerDefinition = "definition"
	headerPos        = "pos"
	headerEdition    = "edition"
)

// Sense is one definition of a word in one edition.
type Sense struct {
	Word       string
	Definition string
	Pos        string
	Edition    string
}

// ReadSenses reads senses from CSV with a header row naming the columns
// word, definition, pos and edition in any order. Headwords are lowercased
// and must then be plain a-z.
func ReadSenses(r io.Reader) ([]Sense, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{headerWord, headerDefinition, headerPos, headerEdition} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("reading header: missing column %q", col)
		}
	}

	var senses []Sense
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}

		field := func(name string) string {
			i := index[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		sense := Sense{
			Word:       strings.ToLower(field(headerWord)),
			Definition: field(headerDefinition),
			Pos:        field(headerPos),
			Edition:    field(headerEdition),
		}
		if !lexicon.ValidHeadword(sense.Word) {
			return nil, fmt.Errorf("line %d: invalid headword %q", line, sense.Word)
		}
		if sense.Edition == "" {
			return nil, fmt.Errorf("line %d: missing edition", line)
		}
		senses = append(senses, sense)
	}

	return senses, nil
}

// WriteSenses writes senses as CSV in the layout ReadSenses reads.
func WriteSenses(w io.Writer, senses []Sense) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{headerWord, headerDefinition, headerPos, headerEdition}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, s := range senses {
		if err := writer.Write([]string{s.Word, s.Definition, s.Pos, s.Edition}); err != nil {
			return fmt.Errorf("writing %q: %w", s.Word, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
