package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Entry is one record of a NASPA definitions file. Derived forms name their
// root and usually carry a "< ROOT" reference instead of a definition.
type Entry struct {
	Word       string `json:"word"`
	Root       string `json:"root"`
	Pos        string `json:"pos"`
	Num        int    `json:"num"`
	Definition string `json:"definition"`
}

// UnmarshalJSON accepts both the object form and the positional
// [word, root, pos, num, definition] form used by the published files.
func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		type plain Entry
		return json.Unmarshal(data, (*plain)(e))
	}

	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 5 {
		return fmt.Errorf("entry has %d fields, want 5", len(fields))
	}
	for i, dst := range []any{&e.Word, &e.Root, &e.Pos, &e.Num, &e.Definition} {
		if err := json.Unmarshal(fields[i], dst); err != nil {
			return fmt.Errorf("entry field %d: %w", i, err)
		}
	}
	return nil
}

// ReadEntries reads a definitions file of the form {"words": [...]}.
func ReadEntries(r io.Reader) ([]Entry, error) {
	var file struct {
		Words []Entry `json:"words"`
	}
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("reading definitions: %w", err)
	}
	return file.Words, nil
}

// hashtagDefinition is the one definition where '#' is part of the text.
const hashtagDefinition = "a word or phrase preceded by the symbol # that categorizes the accompanying text"

var definitionCleaner = strings.NewReplacer("*", "", "#", "", "{mdash}", "\u2014")

// CleanDefinition strips the '*' and '#' validity markers and expands
// {mdash}.
func CleanDefinition(s string) string {
	if s == hashtagDefinition {
		return s
	}
	return definitionCleaner.Replace(s)
}

// FriendlyPos turns "verb_past_participle" into "verb past participle".
func FriendlyPos(pos string) string {
	return strings.ReplaceAll(pos, "_", " ")
}

// reference returns the root named by a "< ROOT" definition.
func reference(def string) (string, bool) {
	_, after, ok := strings.Cut(def, "<")
	if !ok {
		return "", false
	}
	fields := strings.Fields(after)
	if len(fields) == 0 {
		return "", false
	}
	return strings.ToUpper(fields[0]), true
}

// ResolveStats counts how the entries of one edition were resolved.
type ResolveStats struct {
	Roots      int
	Derived    int
	Unresolved int
}

// Resolve turns the entries of one edition into senses. Roots keep their own
// cleaned definition. Derived forms take the definition of their root, and a
// root whose definition is itself a reference points at the referenced word,
// following one further reference. When a root word has several entries,
// the one matching the derived form is picked by number, then by the part of
// speech prefix, then by having a definition at all. A form whose root has no
// entry keeps an empty definition. Senses come out in input order with
// lowercase headwords and readable parts of speech.
func Resolve(entries []Entry, edition string) ([]Sense, ResolveStats) {
	var stats ResolveStats

	isRoot := make([]bool, len(entries))
	roots := make(map[string][]Entry)
	redirects := make(map[string]string)
	var redirectOrder []string

	for i, e := range entries {
		ref, hasRef := reference(e.Definition)
		if e.Word != e.Root {
			continue
		}
		if !hasRef {
			isRoot[i] = true
			roots[e.Word] = append(roots[e.Word], e)
			continue
		}
		if _, ok := redirects[e.Word]; !ok {
			redirectOrder = append(redirectOrder, e.Word)
		}
		redirects[e.Word] = ref
	}
	for _, word := range redirectOrder {
		if next, ok := redirects[redirects[word]]; ok {
			redirects[word] = next
		}
	}

	senses := make([]Sense, 0, len(entries))
	for i, e := range entries {
		sense := Sense{
			Word:       strings.ToLower(e.Word),
			Definition: CleanDefinition(e.Definition),
			Pos:        FriendlyPos(e.Pos),
			Edition:    edition,
		}

		if isRoot[i] {
			stats.Roots++
			senses = append(senses, sense)
			continue
		}

		root := e.Root
		if e.Word == e.Root {
			root, _ = reference(e.Definition)
		}
		if next, ok := redirects[root]; ok {
			root = next
		}

		match, ok := pickRoot(e, roots[root])
		if !ok {
			stats.Unresolved++
			sense.Definition = ""
			senses = append(senses, sense)
			continue
		}

		stats.Derived++
		sense.Definition = CleanDefinition(match.Definition)
		senses = append(senses, sense)
	}

	return senses, stats
}

// pickRoot chooses the root entry a derived form inherits from.
func pickRoot(e Entry, candidates []Entry) (Entry, bool) {
	switch len(candidates) {
	case 0:
		return Entry{}, false
	case 1:
		return candidates[0], true
	}

	byNum := func(in []Entry) []Entry {
		return filter(in, func(r Entry) bool { return r.Num == e.Num })
	}
	withDef := func(in []Entry) []Entry {
		return filter(in, func(r Entry) bool { return r.Definition != "" })
	}

	if samePos(candidates) {
		if m := byNum(candidates); len(m) == 1 {
			return m[0], true
		}
	}

	prefix := posPrefix(e.Pos)
	samePrefix := filter(candidates, func(r Entry) bool { return posPrefix(r.Pos) == prefix })
	if len(samePrefix) == 1 {
		return samePrefix[0], true
	}

	m := byNum(samePrefix)
	if len(m) == 1 {
		return m[0], true
	}
	if d := withDef(m); len(d) > 0 {
		return d[0], true
	}
	if d := withDef(candidates); len(d) > 0 {
		return d[0], true
	}
	return Entry{}, false
}

func posPrefix(pos string) string {
	prefix, _, _ := strings.Cut(pos, "_")
	return prefix
}

func samePos(entries []Entry) bool {
	for _, r := range entries[1:] {
		if r.Pos != entries[0].Pos {
			return false
		}
	}
	return true
}

func filter(in []Entry, keep func(Entry) bool) []Entry {
	var out []Entry
	for _, r := range in {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
