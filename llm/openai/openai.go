// Package openai implements llm.Client using the official openai-go SDK.
package openai

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client calls the OpenAI chat completions API.
type Client struct {
	opts []option.RequestOption
}

// New creates a Client authenticated with the given API key.
func New(apiKey string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing")
	}
	return &Client{opts: append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)}, nil
}

func (c *Client) Complete(ctx context.Context, model, system, user string) (string, error) {
	client := openai.NewClient(c.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
