package model

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Count is a non-negative tally such as a restaurant or review count.
// Producers sometimes emit counts as floats (40.0), so any JSON number is
// accepted and rounded to the nearest integer.
type Count int

// Int returns c as an int.
func (c Count) Int() int { return int(c) }

// UnmarshalJSON implements json.Unmarshaler.
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("count %s is not a number", data)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("count %s out of range", data)
	}
	*c = Count(math.Round(f))
	return nil
}
