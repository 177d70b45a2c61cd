package rts

import (
	"fmt"
	"sort"
)

// Kind selects between the two decay series of a construction
type Kind string

const (
	// Solar applies to transmitted beam/diffuse solar gain reaching the floor
	Solar Kind = "solar"
	// NonSolar applies to conduction, internal and indoor-shaded solar gain
	NonSolar Kind = "nonsolar"
)

// Fallback table coordinates used when a requested combination is missing
const (
	FallbackMass   = "medium"
	FallbackFloor  = "panels"
	FallbackBucket = "50"
)

// Entry holds both decay series for one construction
type Entry struct {
	Solar    []float64 `json:"solar"`
	NonSolar []float64 `json:"nonsolar"`
}

func (e Entry) series(kind Kind) ([]float64, bool) {
	var s []float64
	switch kind {
	case Solar:
		s = e.Solar
	case NonSolar:
		s = e.NonSolar
	}
	if len(s) != Hours {
		return nil, false
	}
	return s, true
}

// Table is indexed by thermal mass, floor type and glazing bucket
type Table map[string]map[string]map[string]Entry

// Lookup returns the series for an exact table position
func (t Table) Lookup(mass, floor, bucket string, kind Kind) (Series, bool) {
	var out Series
	entry, ok := t[mass][floor][bucket]
	if !ok {
		return out, false
	}
	s, ok := entry.series(kind)
	if !ok {
		return out, false
	}
	copy(out[:], s)
	return out, true
}

// Series returns the decay series for a construction. A missing position falls
// back to medium mass / panels / 50 %, and if that is missing too, to Impulse.
// The second return value reports whether a fallback was used.
func (t Table) Series(mass, floor string, glassPct float64, kind Kind) (Series, bool) {
	if s, ok := t.Lookup(mass, floor, BucketKey(glassPct), kind); ok {
		return s, false
	}
	if s, ok := t.Lookup(FallbackMass, FallbackFloor, FallbackBucket, kind); ok {
		return s, true
	}
	return Impulse, true
}

// Validate checks every series of the table and returns the first problem found
func (t Table) Validate(tol float64) error {
	for _, mass := range sortedKeys(t) {
		floors := t[mass]
		for _, floor := range sortedKeys(floors) {
			buckets := floors[floor]
			for _, bucket := range sortedKeys(buckets) {
				for _, kind := range []Kind{Solar, NonSolar} {
					s, ok := t.Lookup(mass, floor, bucket, kind)
					if !ok {
						return fmt.Errorf("rts %s/%s/%s: %s series missing or not %d long", mass, floor, bucket, kind, Hours)
					}
					if err := Validate(s, tol); err != nil {
						return fmt.Errorf("rts %s/%s/%s/%s: %w", mass, floor, bucket, kind, err)
					}
				}
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
