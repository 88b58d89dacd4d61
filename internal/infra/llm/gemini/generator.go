package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/pkg/metrics"
)

// Generator calls Gemini through the genai SDK and implements diagnosis.Generator.
type Generator struct {
	client *genai.Client
}

// NewGenerator constructs a Gemini generator. baseURL is optional and only
// overrides the API endpoint.
func NewGenerator(ctx context.Context, apiKey, baseURL string) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(baseURL) != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Generator{client: client}, nil
}

// Generate issues a single GenerateContent call with JSON output enforced.
func (g *Generator) Generate(ctx context.Context, req diagnosis.GenerateRequest) (diagnosis.GenerateResponse, error) {
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), contentConfig(req))
	if err != nil {
		return diagnosis.GenerateResponse{}, fmt.Errorf("gemini generate content: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return diagnosis.GenerateResponse{}, errors.New("gemini returned empty text")
	}
	return diagnosis.GenerateResponse{Text: text, Usage: usageOf(resp.UsageMetadata)}, nil
}

func contentConfig(req diagnosis.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   convertSchema(req.Schema),
	}
	if req.Temperature > 0 {
		temperature := req.Temperature
		cfg.Temperature = &temperature
	}
	if req.ThinkingBudget > 0 {
		budget := req.ThinkingBudget
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	}
	return cfg
}

func convertSchema(s *diagnosis.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        schemaType(s.Type),
		Description: s.Description,
		Enum:        append([]string(nil), s.Enum...),
		Required:    append([]string(nil), s.Required...),
		Items:       convertSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertSchema(prop)
		}
		out.PropertyOrdering = append([]string(nil), s.Order...)
	}
	return out
}

func schemaType(t diagnosis.SchemaType) genai.Type {
	switch t {
	case diagnosis.TypeObject:
		return genai.TypeObject
	case diagnosis.TypeArray:
		return genai.TypeArray
	default:
		return genai.TypeString
	}
}

func usageOf(meta *genai.GenerateContentResponseUsageMetadata) metrics.TokenUsage {
	if meta == nil {
		return metrics.TokenUsage{}
	}
	return metrics.TokenUsage{
		PromptTokens:     int(meta.PromptTokenCount),
		CompletionTokens: int(meta.CandidatesTokenCount),
		ThinkingTokens:   int(meta.ThoughtsTokenCount),
		TotalTokens:      int(meta.TotalTokenCount),
	}
}

var _ diagnosis.Generator = (*Generator)(nil)
