package window

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Matches serialize to the flanking_segments column format: a JSON
// array of [id, start, end, strand] tuples.

// MarshalJSON encodes the match as a 4-element tuple.
func (m Match) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{m.ID, m.Start, m.End, m.Strand})
}

// UnmarshalJSON decodes a 4-element tuple into the match.
func (m *Match) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if len(raw) < 4 {
		return fmt.Errorf("flanking segment tuple has %d elements, need 4", len(raw))
	}
	id, ok := raw[0].(string)
	if !ok {
		return fmt.Errorf("flanking segment id is not a string: %v", raw[0])
	}
	vals := make([]int, 3)
	for i, v := range raw[1:4] {
		n, ok := v.(json.Number)
		if !ok {
			return fmt.Errorf("flanking segment coordinate is not a number: %v", v)
		}
		iv, err := n.Int64()
		if err != nil {
			return fmt.Errorf("flanking segment coordinate %v: %w", v, err)
		}
		vals[i] = int(iv)
	}
	m.ID = id
	m.Start = vals[0]
	m.End = vals[1]
	m.Strand = vals[2]
	return nil
}

// EncodeSegments renders matches as the flanking_segments cell value.
// A nil or empty match list encodes as "[]".
func EncodeSegments(matches []Match) (string, error) {
	if len(matches) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(matches)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeSegments parses a flanking_segments cell. Empty and malformed
// cells decode to an empty list so one bad row cannot poison a join
// pass over millions of rows.
func DecodeSegments(cell string) []Match {
	if cell == "" || cell == "[]" {
		return nil
	}
	var matches []Match
	if err := json.Unmarshal([]byte(cell), &matches); err != nil {
		return nil
	}
	return matches
}
