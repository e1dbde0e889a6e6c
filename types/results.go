package types

// CropAdvice is the answer to a crop recommendation request.
type CropAdvice struct {
	RecommendedCrops []string `json:"recommended_crops"`

	// Confidence is a placeholder in [0.70, 0.95]; it is not derived from
	// how well the crops matched.
	Confidence float64 `json:"confidence"`
}

// YieldEstimate is the expected harvest for a plot.
type YieldEstimate struct {
	EstimatedYield float64 `json:"estimated_yield"`
	Unit           string  `json:"unit"`
}

// PesticideAdvice is a treatment suggestion for a crop disease.
type PesticideAdvice struct {
	Pesticide              string  `json:"pesticide"`
	DosagePerAcre          float64 `json:"dosage_per_acre"`
	EcoFriendlyAlternative string  `json:"eco_friendly_alternative"`
	TotalDosage            float64 `json:"total_dosage"`
}

// DiseaseDetection is the outcome of a disease check.
type DiseaseDetection struct {
	Disease  string `json:"disease"`
	Severity string `json:"severity"`
}

type MarketPrice struct {
	Crop            string  `json:"crop"`
	PricePerQuintal float64 `json:"price_per_quintal"`
	Unit            string  `json:"unit"`
}

type ProfitEstimate struct {
	EstimatedProfit float64 `json:"estimated_profit"`
	Currency        string  `json:"currency"`
}

type Forecast struct {
	Forecast []ForecastDay `json:"forecast"`
}

// AIRecommendation is free-form model output.
type AIRecommendation struct {
	Recommendation string `json:"recommendation"`
}

// AIDetection is the model's description of an uploaded crop image.
type AIDetection struct {
	DetectionResult string `json:"detection_result"`
}
