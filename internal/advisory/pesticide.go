package advisory

import "strings"

// PesticideAdvice is a treatment suggestion for a crop disease.
type PesticideAdvice struct {
	Pesticide              string
	DosagePerAcre          float64
	EcoFriendlyAlternative string
	TotalDosage            float64
}

type treatment struct {
	pesticide   string
	dosage      float64
	alternative string
}

var defaultTreatment = treatment{pesticide: "Cypermethrin", dosage: 0.5, alternative: "Neem Oil"}

var treatments = map[string]treatment{
	"leaf blight":    {pesticide: "Mancozeb", dosage: 0.8, alternative: "Trichoderma viride"},
	"powdery mildew": {pesticide: "Sulphur 80 WP", dosage: 1.0, alternative: "Milk and baking soda spray"},
	"rust":           {pesticide: "Propiconazole", dosage: 0.2, alternative: "Garlic extract"},
	"blast":          {pesticide: "Tricyclazole", dosage: 0.25, alternative: "Pseudomonas fluorescens"},
	"aphids":         {pesticide: "Imidacloprid", dosage: 0.1, alternative: "Neem Oil"},
	"bollworm":       {pesticide: "Emamectin benzoate", dosage: 0.09, alternative: "Bacillus thuringiensis"},
}

// RecommendPesticide returns the treatment for disease scaled to
// areaAcres. Unknown diseases get the general-purpose treatment.
func RecommendPesticide(disease, crop string, areaAcres float64) PesticideAdvice {
	t, ok := treatments[strings.ToLower(strings.TrimSpace(disease))]
	if !ok {
		t = defaultTreatment
	}
	return PesticideAdvice{
		Pesticide:              t.pesticide,
		DosagePerAcre:          t.dosage,
		EcoFriendlyAlternative: t.alternative,
		TotalDosage:            Round2(t.dosage * areaAcres),
	}
}

// DiseaseFinding is the result of the image-free disease check.
type DiseaseFinding struct {
	Disease  string
	Severity string
}

// DetectDisease returns the placeholder finding used when no vision model
// is involved.
func DetectDisease(imageURL, crop string) DiseaseFinding {
	return DiseaseFinding{Disease: "Leaf Blight", Severity: "medium"}
}
