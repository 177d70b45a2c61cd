// Package rts implements the ASHRAE Radiant Time Series method: a radiant heat
// gain is spread over the following 24 hours by a decay series whose
// coefficients sum to one.
package rts

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// Hours is the length of a radiant time series
const Hours = 24

// Series is a 24-hour decay series or an hourly gain/load profile
type Series [Hours]float64

// Impulse is the zero-delay series: all radiant gain becomes load in the same hour
var Impulse = Series{1}

// Apply converts hourly radiant gains into cooling load by circular convolution:
//
//	load[n] = Σ_k coeffs[k] × gains[(n-k+24) mod 24]
func Apply(gains, coeffs Series) Series {
	var load Series
	for n := 0; n < Hours; n++ {
		var sum float64
		for k := 0; k < Hours; k++ {
			sum += coeffs[k] * gains[(n-k+Hours)%Hours]
		}
		load[n] = sum
	}
	return load
}

// Convolve applies the series when accumulation is included and passes the
// gains through unchanged otherwise.
func Convolve(include bool, gains, coeffs Series) Series {
	if !include {
		return gains
	}
	return Apply(gains, coeffs)
}

// Validate checks that the coefficients conserve energy within tol
func Validate(coeffs Series, tol float64) error {
	sum := floats.Sum(coeffs[:])
	if math.Abs(sum-1) > tol {
		return fmt.Errorf("rts coefficients sum to %.4f, expected 1", sum)
	}
	for k, c := range coeffs {
		if c < 0 {
			return fmt.Errorf("rts coefficient %d is negative (%.4f)", k, c)
		}
	}
	return nil
}

// Bucket maps a glazing percentage to the nearest tabulated bucket (10, 50 or 90)
func Bucket(glassPct float64) int {
	switch {
	case glassPct <= 30:
		return 10
	case glassPct <= 70:
		return 50
	default:
		return 90
	}
}

// BucketKey is Bucket formatted as a table key
func BucketKey(glassPct float64) string {
	return strconv.Itoa(Bucket(glassPct))
}

// Exponential builds a geometric decay series c[k] ∝ ratio^k normalised to sum
// to one. Useful for synthetic tables; real designs should use the published
// ASHRAE coefficients.
func Exponential(ratio float64) Series {
	var s Series
	v := 1.0
	for k := range s {
		s[k] = v
		v *= ratio
	}
	floats.Scale(1/floats.Sum(s[:]), s[:])
	return s
}
