package assistant

import "fmt"

// ImagePrompt is sent along with every uploaded crop image.
const ImagePrompt = "Analyze the following image of a crop and identify any visible diseases. " +
	"Provide the name of the disease and a brief description of the symptoms."

// CropPrompt asks for a crop suited to location in month.
func CropPrompt(location, month string) string {
	return fmt.Sprintf("Recommend a suitable crop to grow in %s during the month of %s. "+
		"Provide a short reason for your recommendation.", location, month)
}

// PesticidePrompt asks for a treatment of disease on crop.
func PesticidePrompt(crop, disease string) string {
	return fmt.Sprintf("Recommend a pesticide for a %s crop affected by %s. "+
		"Include the recommended dosage and an eco-friendly alternative if possible.", crop, disease)
}
