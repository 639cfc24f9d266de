package models

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Num is a numeric input field that decodes leniently. Numbers and numeric
// strings decode to their value; null, booleans, objects, garbage, NaN and
// infinities decode to 0.
type Num float64

// ParseNum parses s as a finite number, returning 0 when it is not one
func ParseNum(s string) Num {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Num(f)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Num) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			*n = 0
			return nil
		}
		*n = ParseNum(s)
		return nil
	}
	*n = ParseNum(string(data))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (n *Num) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		*n = 0
		return nil
	}
	*n = ParseNum(value.Value)
	return nil
}
