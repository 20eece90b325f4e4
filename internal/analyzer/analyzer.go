package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"catalogcalc/internal/problem"
)

const DefaultModel = "gpt-4o-mini"

var ErrEmptyReply = errors.New("analyzer returned no choices")

// Client turns problem text into a specification through a chat-completions
// endpoint.
type Client struct {
	url    string
	token  string
	model  string
	client *http.Client
}

func New(url, token, model string, client *http.Client) *Client {
	if model == "" {
		model = DefaultModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{url: url, token: token, model: model, client: client}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Analyze sends text to the model and parses its reply.
func (c *Client) Analyze(ctx context.Context, text string) (*problem.Specification, error) {
	if strings.TrimSpace(c.url) == "" {
		return nil, fmt.Errorf("analyzer url is not configured")
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding analyzer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building analyzer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("calling analyzer: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var reply chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decoding analyzer reply: %w", err)
	}
	if len(reply.Choices) == 0 {
		return nil, ErrEmptyReply
	}

	spec, err := problem.Parse([]byte(reply.Choices[0].Message.Content))
	if err != nil {
		return nil, fmt.Errorf("parsing analyzer reply: %w", err)
	}
	return spec, nil
}
