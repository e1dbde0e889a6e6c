package services

import (
	"context"
	"errors"

	"github.com/krushiiq/apiserver/internal/advisory"
	"github.com/krushiiq/apiserver/types"
)

// AdvisoryService answers the rule-based advisory requests and logs each
// answer.
type AdvisoryService struct {
	recorder *Recorder
	rng      advisory.Rand
}

func NewAdvisoryService(recorder *Recorder, rng advisory.Rand) *AdvisoryService {
	return &AdvisoryService{recorder: recorder, rng: rng}
}

func (s *AdvisoryService) RecommendCrop(ctx context.Context, sample advisory.SoilSample, input map[string]any) (types.CropAdvice, error) {
	rec := advisory.Recommend(s.rng, sample)
	result := types.CropAdvice{
		RecommendedCrops: rec.Crops,
		Confidence:       rec.Confidence,
	}
	if _, err := s.recorder.Record(ctx, types.AdvisoryCrop, types.SourceHeuristic, input, result); err != nil {
		return types.CropAdvice{}, err
	}
	return result, nil
}

// PredictYield fails with ErrNotFound for crops missing from the yield
// table.
func (s *AdvisoryService) PredictYield(ctx context.Context, crop string, areaAcres float64, location string, input map[string]any) (types.YieldEstimate, error) {
	estimate, err := advisory.PredictYield(crop, areaAcres, location)
	if err != nil {
		var unsupported *advisory.UnsupportedCropError
		if errors.As(err, &unsupported) {
			return types.YieldEstimate{}, newError(ErrNotFound, "%s", unsupported.Error())
		}
		return types.YieldEstimate{}, err
	}

	result := types.YieldEstimate{EstimatedYield: estimate, Unit: advisory.YieldUnit}
	if _, err := s.recorder.Record(ctx, types.AdvisoryYield, types.SourceHeuristic, input, result); err != nil {
		return types.YieldEstimate{}, err
	}
	return result, nil
}

func (s *AdvisoryService) RecommendPesticide(ctx context.Context, disease, crop string, areaAcres float64, input map[string]any) (types.PesticideAdvice, error) {
	advice := advisory.RecommendPesticide(disease, crop, areaAcres)
	result := types.PesticideAdvice{
		Pesticide:              advice.Pesticide,
		DosagePerAcre:          advice.DosagePerAcre,
		EcoFriendlyAlternative: advice.EcoFriendlyAlternative,
		TotalDosage:            advice.TotalDosage,
	}
	if _, err := s.recorder.Record(ctx, types.AdvisoryPesticide, types.SourceHeuristic, input, result); err != nil {
		return types.PesticideAdvice{}, err
	}
	return result, nil
}

func (s *AdvisoryService) DetectDisease(ctx context.Context, imageURL, crop string, input map[string]any) (types.DiseaseDetection, error) {
	finding := advisory.DetectDisease(imageURL, crop)
	result := types.DiseaseDetection{Disease: finding.Disease, Severity: finding.Severity}
	if _, err := s.recorder.Record(ctx, types.AdvisoryDisease, types.SourceHeuristic, input, result); err != nil {
		return types.DiseaseDetection{}, err
	}
	return result, nil
}

// MarketPrice is not recorded.
func (s *AdvisoryService) MarketPrice(crop string) types.MarketPrice {
	return types.MarketPrice{
		Crop:            crop,
		PricePerQuintal: advisory.MarketPrice(crop),
		Unit:            advisory.PriceUnit,
	}
}

// EstimateProfit is not recorded.
func (s *AdvisoryService) EstimateProfit(estimatedYield, pricePerQuintal, costPerQuintal float64) types.ProfitEstimate {
	return types.ProfitEstimate{
		EstimatedProfit: advisory.EstimateProfit(estimatedYield, pricePerQuintal, costPerQuintal),
		Currency:        advisory.Currency,
	}
}
