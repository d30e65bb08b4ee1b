package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"agency_estimate/config"
	"agency_estimate/internal/usecase/interfaces"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

var ErrMissingGeminiAPIKey = errors.New("missing GEMINI_API_KEY")

// GeminiGenerator sends a single prompt to the Generative Language API.
// There is no retry and no streaming.
type GeminiGenerator struct {
	models *generativelanguage.ModelsService
	model  string
}

var _ interfaces.ITextGenerator = (*GeminiGenerator)(nil)

func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig, opts ...option.ClientOption) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingGeminiAPIKey
	}
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create generative language client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}
	return &GeminiGenerator{models: svc.Models, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(g.model, &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: prompt}},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := candidateText(resp)
	slog.InfoContext(ctx, "draft generated", "model", g.model, "candidates", len(resp.Candidates), "text_len", len(text))
	return text, nil
}

// candidateText joins the text parts of the first candidate.
func candidateText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
