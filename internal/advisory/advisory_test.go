package advisory

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) IntN(int) int     { return r.n }

func TestScoreWheatPerfectMatch(t *testing.T) {
	sample := SoilSample{N: 80, P: 40, K: 40, PH: 6.5, Location: "anywhere", Season: "Rabi"}
	assert.Equal(t, 5, Score(Crops[0], sample))
}

func TestRecommendIncludesQualifyingCrops(t *testing.T) {
	sample := SoilSample{N: 80, P: 40, K: 40, PH: 6.5, Location: "anywhere", Season: "rabi"}

	got := Recommend(rand.New(rand.NewPCG(1, 2)), sample)

	require.NotEmpty(t, got.Crops)
	assert.Equal(t, "Wheat", got.Crops[0])
	assert.GreaterOrEqual(t, got.Confidence, 0.70)
	assert.LessOrEqual(t, got.Confidence, 0.95)
	assert.Equal(t, Round2(got.Confidence), got.Confidence)
}

func TestRecommendKeepsTableOrder(t *testing.T) {
	// Rice and Maize both match n, k and season.
	sample := SoilSample{N: 95, P: 0, K: 35, PH: 0, Season: "kharif"}

	got := Recommend(fixedRand{f: 0}, sample)
	assert.Equal(t, []string{"Rice", "Maize"}, got.Crops)
	assert.Equal(t, 0.70, got.Confidence)
}

func TestRecommendFallsBackToRandomCrop(t *testing.T) {
	sample := SoilSample{N: 1000, P: 1000, K: 1000, PH: 14, Season: "none"}

	got := Recommend(fixedRand{f: 1, n: 3}, sample)
	assert.Equal(t, []string{"Chickpea"}, got.Crops)
	assert.Equal(t, 0.95, got.Confidence)
}

func TestPredictYield(t *testing.T) {
	tests := []struct {
		name     string
		crop     string
		area     float64
		location string
		want     float64
	}{
		{name: "wheat north", crop: "wheat", area: 2, location: "north", want: 7.2},
		{name: "case insensitive", crop: "WHEAT", area: 2, location: " North ", want: 7.2},
		{name: "unknown location", crop: "rice", area: 1.5, location: "mars", want: 6},
		{name: "fractional factor", crop: "maize", area: 2, location: "central", want: 7.35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PredictYield(tt.crop, tt.area, tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPredictYieldUnknownCrop(t *testing.T) {
	_, err := PredictYield("Quinoa", 1, "north")

	var unsupported *UnsupportedCropError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "Crop 'Quinoa' is not supported for yield prediction", err.Error())
}

func TestRecommendPesticide(t *testing.T) {
	got := RecommendPesticide("unknown spots", "wheat", 3)
	assert.Equal(t, PesticideAdvice{
		Pesticide:              "Cypermethrin",
		DosagePerAcre:          0.5,
		EcoFriendlyAlternative: "Neem Oil",
		TotalDosage:            1.5,
	}, got)

	got = RecommendPesticide("Leaf Blight", "rice", 2)
	assert.Equal(t, "Mancozeb", got.Pesticide)
	assert.Equal(t, 1.6, got.TotalDosage)
}

func TestDetectDiseaseIsPlaceholder(t *testing.T) {
	assert.Equal(t, DiseaseFinding{Disease: "Leaf Blight", Severity: "medium"}, DetectDisease("http://x/img.png", "wheat"))
}

func TestMarketPrice(t *testing.T) {
	assert.Equal(t, 2275.0, MarketPrice("Wheat"))
	assert.Equal(t, 2500.0, MarketPrice("dragonfruit"))
}

func TestEstimateProfit(t *testing.T) {
	assert.Equal(t, 5000.0, EstimateProfit(10, 2500, 2000))
	assert.Equal(t, 0.33, EstimateProfit(1.1, 0.3, 0))
	assert.Equal(t, -150.0, EstimateProfit(3, 100, 150))
}
