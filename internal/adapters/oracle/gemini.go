package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"load-planning-service/internal/ports"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiOracle implements ports.PlanOracle with the Gemini API.
//
// Each Propose call gets its own timeout and retries transient failures
// with backoff. The oracle is safe for concurrent use.
type GeminiOracle struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	retry   retryPolicy
}

func NewGeminiOracle(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiOracle, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiOracle{
		client:  client,
		model:   model,
		timeout: timeout,
		retry:   defaultRetry,
	}, nil
}

func (g *GeminiOracle) Available() bool { return g != nil && g.client != nil }

func (g *GeminiOracle) Propose(ctx context.Context, req ports.OracleRequest) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var cfg *genai.GenerateContentConfig
	if req.ExpectJSON {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	text, err := g.retry.do(ctx, func(ctx context.Context) (string, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: model=%s: %w", g.model, err)
	}

	return text, nil
}
