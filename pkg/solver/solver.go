// Package solver forwards free-text math questions to the Gemini
// generateContent API and returns the answer as plain text.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Answers shown in place of a model response.
const (
	AnswerMissingKey = "Error: API Key missing."
	AnswerFailed     = "Error connecting to AI."
	AnswerEmpty      = "Could not solve."
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel    = "gemini-3-flash-preview"
)

var ErrStatus = errors.New("unexpected response status")

const promptTemplate = `You are a helpful math assistant.
User input: "%s"

Rules:
1. If the input is a math problem (e.g., "square root of 144", "50 * 24"), solve it.
2. If the input is a question about a calculation, explain it briefly.
3. Return ONLY the numeric answer or a very short explanation (max 1 sentence).
4. If the answer is a number, format it clearly.

Response:`

type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

type Client struct {
	config Config
	http   *http.Client
	logger *log.Logger
}

func NewClient(config Config, logger *log.Logger) *Client {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}

	return &Client{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Solve never fails: every problem is reported through one of the fixed
// answer strings.
func (c *Client) Solve(ctx context.Context, problem string) string {
	if c.config.APIKey == "" {
		return AnswerMissingKey
	}

	text, err := c.generate(ctx, fmt.Sprintf(promptTemplate, problem))
	if err != nil {
		c.logger.Printf("failed to solve problem, error: %v", err)
		return AnswerFailed
	}

	if text = strings.TrimSpace(text); text == "" {
		return AnswerEmpty
	}
	return text
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimSuffix(c.config.Endpoint, "/"),
		url.PathEscape(c.config.Model),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(out.Candidates) == 0 {
		return "", nil
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}
