package climate

import (
	"bytes"
	"encoding/json"

	"github.com/chrissnell/coolingload/internal/types"
)

// Series is an hourly climate series. In the data files it appears either as a
// JSON array or as a string holding a JSON array; anything else decodes to an
// empty series.
type Series []float64

// UnmarshalJSON implements json.Unmarshaler. It never fails so that one bad
// series cannot take down a whole dataset.
func (s *Series) UnmarshalJSON(b []byte) error {
	*s = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}

	if b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return nil
		}
		b = []byte(inner)
	}

	var values []*float64
	if err := json.Unmarshal(b, &values); err != nil {
		return nil
	}
	out := make(Series, len(values))
	for i, v := range values {
		if v != nil {
			out[i] = *v
		}
	}
	*s = out
	return nil
}

// At returns the value for hour h, or 0 if the series is too short
func (s Series) At(h int) float64 {
	v, _ := s.Get(h)
	return v
}

// Get returns the value for hour h and whether it exists
func (s Series) Get(h int) (float64, bool) {
	if h < 0 || h >= len(s) {
		return 0, false
	}
	return s[h], true
}

// Hourly copies the first 24 values into a fixed profile
func (s Series) Hourly() types.Hourly {
	var out types.Hourly
	copy(out[:], s)
	return out
}

// Valid reports whether the series covers a full day
func (s Series) Valid() bool {
	return len(s) >= types.HoursPerDay
}
