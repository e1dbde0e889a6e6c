package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/krushiiq/apiserver/internal/assistant"
	"github.com/krushiiq/apiserver/types"
	"go.uber.org/zap"
)

// NotConfiguredMessage is returned while no Gemini API key is set.
const NotConfiguredMessage = "AI service is not configured. Please set the GEMINI_API_KEY."

// Model is a generative model that answers text and image prompts.
type Model interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
	DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// ImageArchive keeps a copy of uploaded images.
type ImageArchive interface {
	ArchiveImage(ctx context.Context, filename, contentType string, data []byte, metadata map[string]string) (string, error)
}

// Image is an uploaded crop photo.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AssistantService answers advisory questions with the generative model.
// Answers are logged to the audit trail on a best-effort basis.
type AssistantService struct {
	model    Model
	recorder *Recorder
	archive  ImageArchive
	logger   *zap.Logger
}

// NewAssistantService builds the service. archive may be nil.
func NewAssistantService(model Model, recorder *Recorder, archive ImageArchive, logger *zap.Logger) *AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantService{model: model, recorder: recorder, archive: archive, logger: logger}
}

// Available fails with ErrUnavailable when the model has no credentials.
func (s *AssistantService) Available() error {
	if s.model == nil || !s.model.Configured() {
		return newError(ErrUnavailable, NotConfiguredMessage)
	}
	return nil
}

func (s *AssistantService) RecommendCrop(ctx context.Context, location, month string) (types.AIRecommendation, error) {
	answer, err := s.generate(ctx, assistant.CropPrompt(location, month))
	if err != nil {
		return types.AIRecommendation{}, err
	}
	result := types.AIRecommendation{Recommendation: answer}
	s.record(ctx, types.AdvisoryCrop, map[string]any{"location": location, "month": month}, result)
	return result, nil
}

func (s *AssistantService) RecommendPesticide(ctx context.Context, crop, disease string) (types.AIRecommendation, error) {
	answer, err := s.generate(ctx, assistant.PesticidePrompt(crop, disease))
	if err != nil {
		return types.AIRecommendation{}, err
	}
	result := types.AIRecommendation{Recommendation: answer}
	s.record(ctx, types.AdvisoryPesticide, map[string]any{"crop": crop, "disease": disease}, result)
	return result, nil
}

// DetectDisease describes the disease visible in img.
func (s *AssistantService) DetectDisease(ctx context.Context, img Image) (types.AIDetection, error) {
	if err := s.Available(); err != nil {
		return types.AIDetection{}, err
	}

	answer, err := s.model.DescribeImage(ctx, assistant.ImagePrompt, img.Data, img.ContentType)
	if err != nil {
		return types.AIDetection{}, upstream("Failed to process image", err)
	}

	input := map[string]any{
		"filename":     img.Filename,
		"content_type": img.ContentType,
		"size":         len(img.Data),
	}
	if s.archive != nil {
		key, err := s.archive.ArchiveImage(ctx, img.Filename, img.ContentType, img.Data, map[string]string{
			"source": string(types.SourceAI),
		})
		if err != nil {
			s.logger.Warn("archive image failed", zap.String("filename", img.Filename), zap.Error(err))
		} else {
			input["object_key"] = key
		}
	}

	result := types.AIDetection{DetectionResult: answer}
	s.record(ctx, types.AdvisoryDisease, input, result)
	return result, nil
}

func (s *AssistantService) generate(ctx context.Context, prompt string) (string, error) {
	if err := s.Available(); err != nil {
		return "", err
	}
	answer, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return "", upstream("Failed to get AI recommendation", err)
	}
	return answer, nil
}

func (s *AssistantService) record(ctx context.Context, kind types.AdvisoryKind, input map[string]any, output any) {
	if s.recorder == nil {
		return
	}
	if _, err := s.recorder.Record(ctx, kind, types.SourceAI, input, output); err != nil {
		s.logger.Warn("store ai record failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func upstream(prefix string, err error) *Error {
	if errors.Is(err, assistant.ErrNotConfigured) {
		return newError(ErrUnavailable, NotConfiguredMessage)
	}
	return &Error{Kind: ErrUpstream, Message: fmt.Sprintf("%s: %v", prefix, err)}
}
