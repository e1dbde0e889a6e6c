// Package advisory holds the rule-based agronomy heuristics behind the
// advisory endpoints. Everything here is a pure function over static
// reference tables.
package advisory

import (
	"math"
	"strings"
)

// CropProfile is the ideal growing condition for one crop.
type CropProfile struct {
	Name   string
	N      float64
	P      float64
	K      float64
	PH     float64
	Season string
}

// Crops is the reference table used for crop recommendation, in
// recommendation order.
var Crops = []CropProfile{
	{Name: "Wheat", N: 80, P: 40, K: 40, PH: 6.5, Season: "rabi"},
	{Name: "Rice", N: 90, P: 45, K: 40, PH: 6.0, Season: "kharif"},
	{Name: "Maize", N: 100, P: 50, K: 30, PH: 6.2, Season: "kharif"},
	{Name: "Chickpea", N: 40, P: 60, K: 80, PH: 7.0, Season: "rabi"},
	{Name: "Cotton", N: 120, P: 40, K: 20, PH: 6.8, Season: "kharif"},
}

// MinCropScore is the number of matching conditions a crop needs to be
// recommended.
const MinCropScore = 3

const (
	minConfidence = 0.70
	maxConfidence = 0.95
)

// SoilSample is the input of a crop recommendation.
type SoilSample struct {
	N        float64
	P        float64
	K        float64
	PH       float64
	Location string
	Season   string
}

// CropRecommendation is the outcome of Recommend.
type CropRecommendation struct {
	Crops      []string
	Confidence float64
}

// Rand is the random source used for the fallback pick and confidence.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Score counts how many of the five growing conditions of c the sample
// satisfies.
func Score(c CropProfile, s SoilSample) int {
	score := 0
	if math.Abs(s.N-c.N) < 20 {
		score++
	}
	if math.Abs(s.P-c.P) < 10 {
		score++
	}
	if math.Abs(s.K-c.K) < 10 {
		score++
	}
	if math.Abs(s.PH-c.PH) < 0.5 {
		score++
	}
	if strings.ToLower(s.Season) == c.Season {
		score++
	}
	return score
}

// Recommend returns every crop scoring at least MinCropScore, or a single
// random crop when none does. Confidence is a placeholder drawn from
// [0.70, 0.95] and does not depend on the scores.
func Recommend(rng Rand, s SoilSample) CropRecommendation {
	var picked []string
	for _, c := range Crops {
		if Score(c, s) >= MinCropScore {
			picked = append(picked, c.Name)
		}
	}
	if len(picked) == 0 {
		picked = []string{Crops[rng.IntN(len(Crops))].Name}
	}

	confidence := minConfidence + rng.Float64()*(maxConfidence-minConfidence)
	return CropRecommendation{
		Crops:      picked,
		Confidence: Round2(confidence),
	}
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
