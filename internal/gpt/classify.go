package gpt

import (
	"context"
	"encoding/json"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
)

// Classifier maps unrecognised input to a command with the chat model.
type Classifier struct {
	client Chatter
	log    *logger.Logger
}

// NewClassifier creates a classifier backed by client.
func NewClassifier(client Chatter, log *logger.Logger) *Classifier {
	return &Classifier{client: client, log: log}
}

// classifyResponse is the JSON the model returns for PromptClassify.
type classifyResponse struct {
	Command string `json:"command"`
	Payload string `json:"payload"`
}

// Classify returns the command the model picked. Unparseable replies and
// login attempts come back as CommandUnknown carrying the raw input.
func (c *Classifier) Classify(ctx context.Context, input string) (domain.Command, error) {
	raw, err := c.client.Chat(ctx, []Message{
		TextMessage(RoleSystem, PromptClassify),
		TextMessage(RoleUser, input),
	})
	if err != nil {
		return domain.Command{}, err
	}

	raw = stripCodeFence(raw)

	var resp classifyResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		c.log.Error("gpt: failed to parse classify JSON: %v\nraw: %s", err, raw)
		return domain.Command{Type: domain.CommandUnknown, Payload: input}, nil
	}

	t := domain.CommandFromString(resp.Command)
	if t == domain.CommandLogin {
		t = domain.CommandUnknown
	}
	c.log.Debug("gpt: classified %q -> %s (payload=%q)", input, t, resp.Payload)

	payload := resp.Payload
	if payload == "" && t == domain.CommandUnknown {
		payload = input
	}
	return domain.Command{Type: t, Payload: payload}, nil
}
