package advisory

import "strings"

// Currency of every price and profit figure.
const Currency = "INR"

// PriceUnit is the currency market prices are quoted in; the amount is per quintal.
const PriceUnit = Currency

var marketPrices = map[string]float64{
	"wheat":     2275,
	"rice":      2183,
	"maize":     2090,
	"chickpea":  5440,
	"cotton":    6620,
	"sugarcane": 315,
}

const defaultMarketPrice = 2500

// MarketPrice returns the reference price per quintal for crop.
func MarketPrice(crop string) float64 {
	if p, ok := marketPrices[strings.ToLower(strings.TrimSpace(crop))]; ok {
		return p
	}
	return defaultMarketPrice
}

// EstimateProfit returns (price - cost) * yield rounded to two decimals.
func EstimateProfit(estimatedYield, pricePerQuintal, costPerQuintal float64) float64 {
	return Round2((pricePerQuintal - costPerQuintal) * estimatedYield)
}
