// Package lexicon provides the core word and definition types for Bananas.
package lexicon

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// NoDefinition replaces an empty definition text.
const NoDefinition = "No definition provided"

// partsOfSpeech maps stored part-of-speech codes to their full names.
var partsOfSpeech = map[string]string{
	"n":       "noun",
	"v":       "verb",
	"article": "article",
	"conj":    "conjunction",
	"adv":     "adverb",
	"adj":     "adjective",
	"interj":  "interjection",
	"pron":    "pronoun",
	"prep":    "preposition",
}

// ExpandPartOfSpeech returns the full name for a part-of-speech code.
// Unrecognized codes are returned unchanged.
func ExpandPartOfSpeech(code string) string {
	if name, ok := partsOfSpeech[code]; ok {
		return name
	}
	return code
}

// Definition is one sense of a word.
type Definition struct {
	Text         string `json:"text"`
	Code         string `json:"code"` // Stored abbreviation (e.g., "n", "interj")
	PartOfSpeech string `json:"pos"`  // Full name (e.g., "noun", "interjection")
}

// NewDefinition builds a Definition from stored fields.
func NewDefinition(text, code string) Definition {
	if text == "" {
		text = NoDefinition
	}
	return Definition{
		Text:         text,
		Code:         code,
		PartOfSpeech: ExpandPartOfSpeech(code),
	}
}

// String formats the definition the way the word card shows it.
func (d Definition) String() string {
	return fmt.Sprintf("%s • %s", d.PartOfSpeech, d.Text)
}

// Edition is a named version of a tracked word list.
type Edition struct {
	ID          string `yaml:"id" json:"id"`                                       // Unique identifier (e.g., "nwl2020")
	Column      string `yaml:"column" json:"-"`                                    // Boolean membership column in the words table
	Name        string `yaml:"name" json:"name"`                                   // Display name (e.g., "NASPA Word List (2020)")
	Description string `yaml:"description,omitempty" json:"description,omitempty"` // Optional notes
}

var columnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks that the edition can be mapped onto a dataset column.
func (e Edition) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("edition id is empty")
	}
	if !columnPattern.MatchString(e.Column) {
		return fmt.Errorf("edition %s: invalid column %q", e.ID, e.Column)
	}
	return nil
}

// Membership records whether a word is in one edition.
type Membership struct {
	Edition string `json:"edition"`
	Present bool   `json:"present"`
}

// Word is one dictionary entry.
//
// Words are values: they are built fresh for every query result and never
// mutated afterwards. Definitions are parsed once when the Word is built.
type Word struct {
	Name        string       `json:"name"`
	Editions    []Membership `json:"editions"`
	Definitions []Definition `json:"definitions"`

	raw   string
	found bool
}

// NewWord builds a Word from a stored row. flags must be in the same order as
// editions. The result reports Found even when it has no definitions and no
// edition flag set.
func NewWord(name, raw string, editions []Edition, flags []bool, decode Decoder) Word {
	if decode == nil {
		decode = ParseDefinitions
	}
	w := Word{
		Name:        name,
		Editions:    make([]Membership, len(editions)),
		Definitions: decode(raw),
		raw:         raw,
		found:       true,
	}
	for i, e := range editions {
		w.Editions[i] = Membership{Edition: e.ID}
		if i < len(flags) {
			w.Editions[i].Present = flags[i]
		}
	}
	return w
}

// Stub returns the placeholder Word for a name that is not in the store.
func Stub(name string, editions []Edition) Word {
	w := NewWord(name, "", editions, nil, nil)
	w.found = false
	return w
}

// InEdition reports whether the word is in the edition with the given id.
func (w Word) InEdition(id string) bool {
	for _, m := range w.Editions {
		if m.Edition == id {
			return m.Present
		}
	}
	return false
}

// Found reports whether the word came from a stored row.
func (w Word) Found() bool {
	return w.found
}

// Equal reports whether two words have identical fields.
func (w Word) Equal(other Word) bool {
	return w.Name == other.Name &&
		w.raw == other.raw &&
		w.found == other.found &&
		slices.Equal(w.Editions, other.Editions) &&
		slices.Equal(w.Definitions, other.Definitions)
}

// Key returns a stable identity string for list rendering.
func (w Word) Key() string {
	var sb strings.Builder
	sb.WriteString(w.Name)
	for _, m := range w.Editions {
		sb.WriteByte('|')
		sb.WriteString(m.Edition)
		if m.Present {
			sb.WriteString("=1")
		} else {
			sb.WriteString("=0")
		}
	}
	sb.WriteByte('|')
	sb.WriteString(w.raw)
	return sb.String()
}

// ValidHeadword reports whether s is a non-empty run of lowercase a-z.
func ValidHeadword(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// SanitizeHeadword lowercases s and drops everything outside a-z.
func SanitizeHeadword(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
