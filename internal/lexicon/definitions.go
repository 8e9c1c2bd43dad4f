package lexicon

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Definition encodings understood by the store.
const (
	EncodingLegacy = "legacy" // text:code;text:code
	EncodingJSON   = "json"   // [{"text":"...","pos":"..."}]
)

// Delimiters of the legacy encoding. They are not escaped.
const (
	senseSeparator = ";"
	fieldSeparator = ":"
)

// ErrUnsafeDelimiter is returned when a field cannot be stored in the legacy
// encoding because it contains a delimiter.
var ErrUnsafeDelimiter = errors.New("field contains a legacy delimiter")

// Decoder turns a raw definitions column into definitions.
type Decoder func(raw string) []Definition

// DecoderFor returns the decoder for a dataset encoding.
// An empty encoding selects the legacy decoder.
func DecoderFor(encoding string) (Decoder, error) {
	switch encoding {
	case "", EncodingLegacy:
		return ParseDefinitions, nil
	case EncodingJSON:
		return ParseDefinitionsJSON, nil
	default:
		return nil, fmt.Errorf("unknown definitions encoding %q", encoding)
	}
}

// ParseDefinitions decodes the legacy encoding.
//
// Sense-records are separated by ";" and each record is "text:code". Parsing is
// positional: field 0 is the text and field 1 the code, anything after a second
// colon is dropped. Empty records and records without a colon are skipped.
func ParseDefinitions(raw string) []Definition {
	if raw == "" {
		return []Definition{}
	}

	segments := strings.Split(raw, senseSeparator)
	defs := make([]Definition, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		fields := strings.Split(seg, fieldSeparator)
		if len(fields) < 2 {
			continue
		}
		defs = append(defs, NewDefinition(fields[0], fields[1]))
	}
	return defs
}

// EncodeDefinitions encodes definitions in the legacy format.
func EncodeDefinitions(defs []Definition) (string, error) {
	parts := make([]string, len(defs))
	for i, d := range defs {
		text := d.Text
		if text == NoDefinition {
			text = ""
		}
		if strings.ContainsAny(text, senseSeparator+fieldSeparator) {
			return "", fmt.Errorf("definition %d text %q: %w", i, d.Text, ErrUnsafeDelimiter)
		}
		if strings.ContainsAny(d.Code, senseSeparator+fieldSeparator) {
			return "", fmt.Errorf("definition %d code %q: %w", i, d.Code, ErrUnsafeDelimiter)
		}
		parts[i] = text + fieldSeparator + d.Code
	}
	return strings.Join(parts, senseSeparator), nil
}

// jsonSense is the stored shape of one sense in the JSON encoding.
type jsonSense struct {
	Text string `json:"text"`
	Pos  string `json:"pos"`
}

// ParseDefinitionsJSON decodes the JSON encoding. Malformed payloads decode
// to an empty list.
func ParseDefinitionsJSON(raw string) []Definition {
	if raw == "" {
		return []Definition{}
	}

	var senses []jsonSense
	if err := json.Unmarshal([]byte(raw), &senses); err != nil {
		return []Definition{}
	}

	defs := make([]Definition, len(senses))
	for i, s := range senses {
		defs[i] = NewDefinition(s.Text, s.Pos)
	}
	return defs
}

// EncodeDefinitionsJSON encodes definitions in the JSON format.
func EncodeDefinitionsJSON(defs []Definition) (string, error) {
	senses := make([]jsonSense, len(defs))
	for i, d := range defs {
		text := d.Text
		if text == NoDefinition {
			text = ""
		}
		senses[i] = jsonSense{Text: text, Pos: d.Code}
	}

	out, err := json.Marshal(senses)
	if err != nil {
		return "", fmt.Errorf("marshaling definitions: %w", err)
	}
	return string(out), nil
}

// Encode encodes definitions with the named encoding.
func Encode(encoding string, defs []Definition) (string, error) {
	switch encoding {
	case "", EncodingLegacy:
		return EncodeDefinitions(defs)
	case EncodingJSON:
		return EncodeDefinitionsJSON(defs)
	default:
		return "", fmt.Errorf("unknown definitions encoding %q", encoding)
	}
}
