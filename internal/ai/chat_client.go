package ai

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
)

// ChatClient генерирует текст через OpenAI Chat Completions.
type ChatClient struct {
	client *openai.Client
}

func NewChatClient(client *openai.Client) *ChatClient {
	return &ChatClient{client: client}
}

func (c *ChatClient) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
