package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mindline/app/config"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxGenerateDuration = 30 * time.Second

// Client wraps the OpenAI-compatible completion endpoint behind the
// generation collaborator contract: prompt in, raw text out.
type Client struct {
	model    llms.Model
	sampling config.Sampling
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	model, err := openai.New(
		openai.WithBaseURL(cfg.OpenAI.BaseURL),
		openai.WithToken(cfg.OpenAI.Token),
		openai.WithModel(cfg.OpenAI.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	return &Client{
		model:    model,
		sampling: cfg.OpenAI.Sampling,
	}, nil
}

// Complete generates raw model text for a composed prompt. Bounded by a
// timeout so a hung call cannot stall other conversations.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, maxGenerateDuration)
	defer cancel()

	result, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(c.sampling.Temperature),
		llms.WithTopP(c.sampling.TopP),
		llms.WithTopK(c.sampling.TopK),
		llms.WithMaxTokens(c.sampling.MaxNewTokens),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	return strings.TrimSpace(result), nil
}
