package advisory

import (
	"fmt"
	"strings"
)

// YieldUnit is the unit of every yield estimate.
const YieldUnit = "tons"

// Base yields in tons per acre.
var baseYields = map[string]float64{
	"wheat":     3.0,
	"rice":      4.0,
	"maize":     3.5,
	"chickpea":  1.2,
	"cotton":    2.0,
	"sugarcane": 35.0,
}

var locationFactors = map[string]float64{
	"north":   1.2,
	"south":   1.1,
	"east":    1.0,
	"west":    0.9,
	"central": 1.05,
}

const defaultLocationFactor = 1.0

// UnsupportedCropError is returned for crops missing from the yield table.
type UnsupportedCropError struct {
	Crop string
}

func (e *UnsupportedCropError) Error() string {
	return fmt.Sprintf("Crop '%s' is not supported for yield prediction", e.Crop)
}

// BaseYield returns the tons-per-acre yield of crop.
func BaseYield(crop string) (float64, bool) {
	v, ok := baseYields[strings.ToLower(strings.TrimSpace(crop))]
	return v, ok
}

// LocationFactor returns the regional multiplier for location, 1.0 when
// the region is unknown.
func LocationFactor(location string) float64 {
	if v, ok := locationFactors[strings.ToLower(strings.TrimSpace(location))]; ok {
		return v
	}
	return defaultLocationFactor
}

// PredictYield estimates the harvest in tons for areaAcres of crop.
func PredictYield(crop string, areaAcres float64, location string) (float64, error) {
	base, ok := BaseYield(crop)
	if !ok {
		return 0, &UnsupportedCropError{Crop: crop}
	}
	return Round2(areaAcres * base * LocationFactor(location)), nil
}
