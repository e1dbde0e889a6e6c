// Package assistant wraps the Gemini models used by the AI advisory
// endpoints.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/krushiiq/apiserver/config"
	"google.golang.org/genai"
)

// ErrNotConfigured is returned by every call when no API key is set.
var ErrNotConfigured = errors.New("AI service is not configured")

// Gemini generates text answers from prompts and images.
type Gemini struct {
	client      *genai.Client
	textModel   string
	visionModel string
	timeout     time.Duration
}

// New builds a Gemini client. An empty or placeholder API key yields an
// unconfigured client rather than an error, so the server still starts.
func New(ctx context.Context, cfg config.AIConfig) (*Gemini, error) {
	g := &Gemini{
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		timeout:     cfg.Timeout,
	}
	if !cfg.Configured() {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.GeminiAPIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	g.client = client
	return g, nil
}

// Configured reports whether calls can reach the model.
func (g *Gemini) Configured() bool {
	return g != nil && g.client != nil
}

// Generate answers a text prompt.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, g.textModel, genai.Text(prompt))
}

// DescribeImage answers prompt about an image.
func (g *Gemini) DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}
	return g.generate(ctx, g.visionModel, contents)
}

func (g *Gemini) generate(ctx context.Context, model string, contents []*genai.Content) (string, error) {
	if !g.Configured() {
		return "", ErrNotConfigured
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("model returned an empty response")
	}
	return text, nil
}
