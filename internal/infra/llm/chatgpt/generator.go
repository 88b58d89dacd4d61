package chatgpt

import (
	"context"
	"errors"
	"fmt"

	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/pkg/metrics"
)

const schemaName = "samutthan_diagnosis"

// Generator adapts the ChatGPT client to diagnosis.Generator using the
// json_schema response format.
type Generator struct {
	client *Client
}

// NewGenerator constructs the adapter.
func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

// Generate sends the prompt with a strict response schema.
func (g *Generator) Generate(ctx context.Context, req diagnosis.GenerateRequest) (diagnosis.GenerateResponse, error) {
	chatReq := ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		Messages: []Message{
			{Role: "system", Content: fmt.Sprintf("You are a Thai Traditional Medicine practitioner. Respond in %s using only the requested JSON shape.", req.Locale.LanguageName())},
			{Role: "user", Content: req.Prompt},
		},
	}
	if req.Schema != nil {
		chatReq.ResponseFormat = &ResponseFormat{
			Type: "json_schema",
			JSONSchema: &JSONSchema{
				Name:   schemaName,
				Strict: true,
				Schema: req.Schema.JSONSchema(),
			},
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return diagnosis.GenerateResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return diagnosis.GenerateResponse{}, errors.New("chatgpt returned no choices")
	}
	return diagnosis.GenerateResponse{
		Text: resp.Choices[0].Message.Content,
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

var _ diagnosis.Generator = (*Generator)(nil)
