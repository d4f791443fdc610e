package packet

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reader reads fields from a validated message payload.
type Reader struct {
	raw json.RawMessage
}

func NewReader(raw json.RawMessage) *Reader {
	return &Reader{raw: raw}
}

// Decode unmarshals the payload into v. An empty payload leaves v untouched.
func (r *Reader) Decode(v any) error {
	if len(r.raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// Number reads a loosely typed numeric field: a JSON number or a numeric
// string. ok is false for anything that is not a finite number.
func (r *Reader) Number(field string) (float64, bool) {
	var m map[string]json.RawMessage
	if err := r.Decode(&m); err != nil {
		return 0, false
	}
	v, present := m[field]
	if !present {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return 0, false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, true
		}
		if f, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
