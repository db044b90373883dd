// Package openrouter implements the text-generation client against the OpenRouter chat completions API.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	Provider       = "openrouter"
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "openai/gpt-4o-mini"
)

var errEmptyResponse = errors.New("openrouter returned empty response")

type Client struct {
	http  *resty.Client
	model string
}

func New(apiKey, model, baseURL string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openrouter api key is required")
	}
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL == "" {
		baseURL = DefaultBaseURL
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &Client{http: http, model: model}, nil
}

func (c *Client) Provider() string { return Provider }
func (c *Client) Model() string    { return c.model }

// Complete sends the format instructions as the system message and the prompt as the user message.
func (c *Client) Complete(ctx context.Context, prompt, formatInstructions string) (string, error) {
	messages := make([]map[string]string, 0, 2)
	if strings.TrimSpace(formatInstructions) != "" {
		messages = append(messages, map[string]string{"role": "system", "content": formatInstructions})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model":           c.model,
			"messages":        messages,
			"temperature":     0.1,
			"response_format": map[string]string{"type": "json_object"},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}

	body := resp.String()
	if resp.IsError() {
		msg := gjson.Get(body, "error.message").String()
		if msg == "" {
			msg = resp.Status()
		}
		return "", fmt.Errorf("openrouter returned %d: %s", resp.StatusCode(), msg)
	}

	text := strings.TrimSpace(gjson.Get(body, "choices.0.message.content").String())
	if text == "" {
		return "", errEmptyResponse
	}
	return text, nil
}
