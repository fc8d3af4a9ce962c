package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/KaramelBytes/dsvalidate-cli/internal/logger"
	"github.com/KaramelBytes/dsvalidate-cli/internal/utils"
)

// NarratorConfig selects the model and decoding settings for narratives.
type NarratorConfig struct {
	Model       string
	MaxTokens   int
	Temperature float64
	// System is sent as the system message ahead of every prompt.
	System string
}

// Narrator turns a rendered validation context into prose with a single
// Generate call. It keeps no state between calls.
type Narrator struct {
	rt  Runtime
	cfg NarratorConfig
	log *logger.Logger
}

// NewNarrator wraps rt. A nil log discards output.
func NewNarrator(rt Runtime, cfg NarratorConfig, log *logger.Logger) *Narrator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Narrator{rt: rt, cfg: cfg, log: log}
}

// Summarize sends prompt as the user message and returns the first choice.
func (n *Narrator) Summarize(ctx context.Context, prompt string) (string, error) {
	if n.rt == nil {
		return "", errors.New("no runtime configured")
	}
	var msgs []Message
	if n.cfg.System != "" {
		msgs = append(msgs, Message{Role: "system", Content: n.cfg.System})
	}
	msgs = append(msgs, Message{Role: "user", Content: prompt})

	tokens := utils.CountTokens(n.cfg.System) + utils.CountTokens(prompt)
	if err := CheckContext(n.cfg.Model, tokens, n.cfg.MaxTokens); err != nil {
		return "", err
	}
	fields := map[string]any{"model": n.cfg.Model, "prompt_tokens_est": tokens}
	if cost, ok := EstimateCostUSD(n.cfg.Model, tokens, n.cfg.MaxTokens); ok {
		fields["max_cost_usd"] = cost
	}
	n.log.WithFields(fields).Debug("requesting narrative")

	resp, err := n.rt.Generate(ctx, GenerateRequest{
		Model:       n.cfg.Model,
		Messages:    msgs,
		MaxTokens:   n.cfg.MaxTokens,
		Temperature: n.cfg.Temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no content returned from model")
	}
	if resp.RequestID != "" {
		n.log.Debugw("narrative received", "request_id", resp.RequestID, "completion_tokens", resp.Usage.CompletionTokens)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
