// Package persist serializes the panel's saved-record set. Floating values
// round-trip through a formatted string so the stored text always carries a
// fixed number of decimals, and two interchangeable backends (flat file,
// key-value prefs file) write to the resolved data directory.
package persist

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrecision is the decimal count used when a codec is built with a
// nonsensical precision.
const DefaultPrecision = 3

// FixedFloat is a float64 that marshals with a fixed decimal count. Prec is
// stamped by the codec before encoding; decoding recovers it from the
// stored text.
type FixedFloat struct {
	V    float64
	Prec int
}

// MarshalJSON formats the value with exactly Prec decimals.
func (f FixedFloat) MarshalJSON() ([]byte, error) {
	prec := f.Prec
	if prec < 0 || prec > 17 {
		prec = DefaultPrecision
	}
	return []byte(strconv.FormatFloat(f.V, 'f', prec, 64)), nil
}

// UnmarshalJSON parses the number and remembers how many decimals the
// stored text carried.
func (f *FixedFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse float %q: %w", s, err)
	}
	f.V = v
	f.Prec = 0
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		f.Prec = len(s) - dot - 1
	}
	return nil
}

// SavedRecord is one persisted (key, type, value) tuple. Exactly one of the
// value fields is meaningful, selected by Type.
type SavedRecord struct {
	Key        string       `json:"key"`
	Type       string       `json:"type"`
	FloatValue FixedFloat   `json:"floatValue"`
	BoolValue  bool         `json:"boolValue"`
	VecValue   []FixedFloat `json:"vecValue,omitempty"`
}

// Codec encodes and decodes the full record set as JSON with a configured
// fixed decimal precision.
type Codec struct {
	Precision int
}

// NewCodec builds a codec, clamping silly precisions to the default.
func NewCodec(precision int) Codec {
	if precision < 0 || precision > 17 {
		precision = DefaultPrecision
	}
	return Codec{Precision: precision}
}

// Encode serializes the records, stamping every float with the codec's
// precision first.
func (c Codec) Encode(records []SavedRecord) ([]byte, error) {
	for i := range records {
		records[i].FloatValue.Prec = c.Precision
		for j := range records[i].VecValue {
			records[i].VecValue[j].Prec = c.Precision
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return data, nil
}

// Decode parses a record set. An empty or "null" document yields an empty
// set; malformed data returns an error so callers can degrade to defaults.
func (c Codec) Decode(data []byte) ([]SavedRecord, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []SavedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}
