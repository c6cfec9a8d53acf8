package ai

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
)

// TextClient отправляет только текст в OpenAI через Responses API.
// Системный промпт уходит в instructions.
type TextClient struct {
	client *openai.Client
}

func NewTextClient(client *openai.Client) *TextClient {
	return &TextClient{client: client}
}

func (c *TextClient) Complete(ctx context.Context, req Request) (string, error) {
	params := responses.ResponseNewParams{
		Model:       req.Model,
		Temperature: openai.Float(req.Temperature),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						{
							OfInputText: &responses.ResponseInputTextParam{
								Text: req.UserPrompt,
							},
						},
					},
					responses.EasyInputMessageRoleUser,
				),
			},
		},
	}
	if req.SystemPrompt != "" {
		params.Instructions = openai.String(req.SystemPrompt)
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", err
	}

	return resp.OutputText(), nil
}
