package birthplace

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"nidgate/pkg/platform/sentinel"
)

// ParseDocument decodes a dataset document. The top level is a JSON object
// whose members are either "prefix": "location" (flat) or
// "province": {"prefix": "city", ...} (two-level); both may be mixed.
//
// Within one object a repeated key replaces the earlier value but keeps the
// earlier position, so a repeated province key replaces that province's
// whole table. Member order is preserved because it decides which province
// wins when the same prefix appears under different provinces.
func ParseDocument(data []byte) ([]Entry, error) {
	entries, err := parseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sentinel.ErrMalformed, err)
	}
	return entries, nil
}

func parseDocument(data []byte) ([]Entry, error) {
	members, err := orderedMembers(data)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, m := range members {
		switch firstByte(m.raw) {
		case '"':
			var city string
			if err := json.Unmarshal(m.raw, &city); err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Prefix: m.key, City: city})
		case '{':
			prefixes, err := orderedMembers(m.raw)
			if err != nil {
				return nil, fmt.Errorf("province %q: %w", m.key, err)
			}
			for _, p := range prefixes {
				var city string
				if err := json.Unmarshal(p.raw, &city); err != nil {
					return nil, fmt.Errorf("province %q prefix %q: city must be a string", m.key, p.key)
				}
				entries = append(entries, Entry{Prefix: p.key, Province: m.key, City: city})
			}
		default:
			return nil, fmt.Errorf("member %q: expected a string or an object", m.key)
		}
	}
	return entries, nil
}

// member is one key of a JSON object with its undecoded value.
type member struct {
	key string
	raw json.RawMessage
}

// orderedMembers returns the members of a JSON object in first-appearance
// order. A repeated key takes the value of its last appearance.
func orderedMembers(data []byte) ([]member, error) {
	var members []member
	at := make(map[string]int)
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		if i, ok := at[key]; ok {
			members[i].raw = raw
			return nil
		}
		at[key] = len(members)
		members = append(members, member{key: key, raw: raw})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// MarshalJSON renders the dataset in document form, preserving member order
// so that parsing the output yields identical resolutions.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range d.groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		if g.province == "" {
			writeMember(&buf, g.entries[0].Prefix, g.entries[0].City)
			continue
		}
		writeString(&buf, g.province)
		buf.WriteString(":{")
		for j, e := range g.entries {
			if j > 0 {
				buf.WriteByte(',')
			}
			writeMember(&buf, e.Prefix, e.City)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key, value string) {
	writeString(buf, key)
	buf.WriteByte(':')
	writeString(buf, value)
}

func writeString(buf *bytes.Buffer, s string) {
	// Marshaling a string cannot fail.
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// decodeOrderedObject walks the members of a JSON object in document order.
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("expected a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("member %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after the top-level object")
	}
	return nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
