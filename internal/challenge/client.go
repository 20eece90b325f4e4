package challenge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// UnknownProblemID is submitted when a problem arrives without an id.
const UnknownProblemID = "unknown"

type Problem struct {
	ID   string
	Text string
}

type Client struct {
	problemURL  string
	solutionURL string
	token       string
	client      *http.Client
}

func NewClient(problemURL, solutionURL, token string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{problemURL: problemURL, solutionURL: solutionURL, token: token, client: client}
}

// NextProblem fetches one problem. The id is read from problem_id, falling
// back to id; numeric ids are accepted.
func (c *Client) NextProblem(ctx context.Context) (*Problem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.problemURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building problem request: %w", err)
	}
	c.authorize(req)

	var body struct {
		ProblemID json.RawMessage `json:"problem_id"`
		ID        json.RawMessage `json:"id"`
		Problem   string          `json:"problem"`
	}
	if err := c.do(req, &body); err != nil {
		return nil, fmt.Errorf("fetching problem: %w", err)
	}

	p := &Problem{ID: rawID(body.ProblemID), Text: body.Problem}
	if p.ID == "" {
		p.ID = rawID(body.ID)
	}
	return p, nil
}

// Submit posts an answer for a problem.
func (c *Client) Submit(ctx context.Context, problemID, answer string) error {
	if problemID == "" {
		problemID = UnknownProblemID
	}
	payload, err := json.Marshal(map[string]string{"problem_id": problemID, "answer": answer})
	if err != nil {
		return fmt.Errorf("encoding solution: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.solutionURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building solution request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("submitting solution for %s: %w", problemID, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}
