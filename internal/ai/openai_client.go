package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const translatorPrompt = `You are a professional translator specializing in customer service for the betting industry. ` +
	`Translate the following text from %s to %s, maintaining the professional and appropriate tone for customer service in the betting industry. ` +
	`Use industry-appropriate terminology and maintain a helpful, professional customer service voice. ` +
	`Only return the translated text, nothing else.`

type OpenAIClient struct {
	client *openai.Client
	model  string
	log    logrus.FieldLogger
}

// NewOpenAIClient builds a translator backed by the chat completions API.
// baseURL is optional and mostly useful for tests and proxies.
func NewOpenAIClient(apiKey, model, baseURL string, log logrus.FieldLogger) (*OpenAIClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("ai: OPENAI_API_KEY not set")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log.WithField("component", "ai"),
	}, nil
}

func (c *OpenAIClient) Translate(ctx context.Context, text string, from, to Lang) (string, error) {
	if !from.Valid() || !to.Valid() {
		return "", fmt.Errorf("ai: unsupported language pair %s->%s", from, to)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(translatorPrompt, from.Name(), to.Name()),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"from": from, "to": to}).Error("openai error")
		return "", fmt.Errorf("ai: openai request: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.log.Warn("empty choices")
		return "", ErrEmptyTranslation
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyTranslation
	}

	c.log.WithFields(logrus.Fields{"from": from, "to": to}).Debugf("translated %.180q -> %.180q", text, out)
	return out, nil
}
