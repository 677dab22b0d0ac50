package subtitle

import (
	"encoding/json"
	"fmt"
	"math"
)

// CharTiming is the start/end time in milliseconds of one transcript
// character. The remote service serializes these as two-element arrays
// ([start, end]), so the JSON representation follows that wire shape.
type CharTiming struct {
	Start int64
	End   int64
}

// MarshalJSON encodes the timing as a [start, end] array.
func (t CharTiming) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{t.Start, t.End})
}

// UnmarshalJSON decodes a [start, end] array. Fractional values are rounded
// to whole milliseconds.
func (t *CharTiming) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("timing pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("timing pair: expected 2 elements, got %d", len(pair))
	}
	t.Start = int64(math.Round(pair[0]))
	t.End = int64(math.Round(pair[1]))
	return nil
}
