package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric form value. It decodes from JSON numbers, numeric strings,
// empty strings and null; anything that does not parse becomes zero.
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	var s string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			*n = 0
			return nil
		}
	} else {
		s = string(b)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Float returns the value with NaN and Inf mapped to zero
func (n Number) Float() float64 {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Int returns the value rounded to the nearest whole number
func (n Number) Int() int {
	return int(math.Round(n.Float()))
}

// OrDefault returns def when the value is zero or not a number, mirroring how
// blank form fields fall back to their documented defaults.
func (n Number) OrDefault(def float64) float64 {
	f := n.Float()
	if f == 0 {
		return def
	}
	return f
}
