// Package assistant turns user utterances plus page context into
// conversation turns by calling the Gemini generateContent API.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"go.uber.org/zap"

	"pagechat/chat"
)

const (
	defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel    = "gemini-2.0-flash"

	// Fixed generation parameters, not configurable per call.
	temperature     = 0.7
	maxOutputTokens = 1024
)

// apiKeyEnv is the environment variable holding the API key. The key is
// never a source literal and never logged.
const apiKeyEnv = "GEMINI_API_KEY"

var (
	// ErrNoAPIKey means the environment provides no API key.
	ErrNoAPIKey = errors.New(apiKeyEnv + " is not set")

	// ErrBadEndpoint means the request could not be constructed.
	ErrBadEndpoint = errors.New("invalid endpoint")

	// ErrBadResponse means the response didn't match the expected shape.
	ErrBadResponse = errors.New("unexpected response shape")
)

// statusError carries a non-2xx response through to the rendered turn.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.status, e.body)
}

// Gateway sends one request per user submission and appends exactly one
// assistant turn with the outcome, success or failure. No retries, no
// streaming, no request queue.
type Gateway struct {
	log      *chat.Log
	client   *http.Client
	logger   *zap.Logger
	endpoint string
	model    string
	apiKey   string
}

// NewGateway creates a Gateway writing into log. The API key is read
// from the environment.
func NewGateway(log *chat.Log, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		log:      log,
		client:   &http.Client{},
		logger:   logger,
		endpoint: defaultEndpoint,
		model:    defaultModel,
		apiKey:   os.Getenv(apiKeyEnv),
	}
}

// WithModel overrides the model name.
func (g *Gateway) WithModel(model string) *Gateway {
	if model != "" {
		g.model = model
	}
	return g
}

// WithEndpoint overrides the API base URL. Used by configuration and tests.
func (g *Gateway) WithEndpoint(endpoint string) *Gateway {
	if endpoint != "" {
		g.endpoint = endpoint
	}
	return g
}

// WithKey overrides the environment-sourced API key.
func (g *Gateway) WithKey(key string) *Gateway {
	g.apiKey = key
	return g
}

// Available reports whether an API key is configured.
func (g *Gateway) Available() bool {
	return g.apiKey != ""
}

// Respond sends userText with the given page snapshot and appends exactly
// one assistant turn with the outcome. The composing flag is raised at
// entry and lowered on every exit path.
func (g *Gateway) Respond(ctx context.Context, userText string, page PageContext) {
	g.log.StartComposing()
	defer g.log.StopComposing()

	reply, err := g.generate(ctx, buildPrompt(userText, page))
	if err != nil {
		g.logger.Warn("assistant request failed", zap.Error(err))
		g.log.AddAssistantTurn(errorTurn(err))
		return
	}
	g.log.AddAssistantTurn(reply)
}

// Wire types for the generateContent API.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate performs the single POST and extracts the first candidate's
// first part.
func (g *Gateway) generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrNoAPIKey
	}

	reqBody := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	target := fmt.Sprintf("%s/%s:generateContent?key=%s", g.endpoint, g.model, url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, "POST", target, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadEndpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	g.logger.Debug("assistant request",
		zap.String("model", g.model),
		zap.Int("promptChars", len(prompt)))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &statusError{status: resp.StatusCode, body: string(body)}
	}

	var apiResp generateResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", ErrBadResponse
	}

	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}

// errorTurn renders a failure as the single assistant turn for this
// submission. Every failure is non-fatal; the conversation stays usable.
func errorTurn(err error) string {
	var statusErr *statusError
	switch {
	case errors.Is(err, ErrNoAPIKey) || errors.Is(err, ErrBadEndpoint):
		return fmt.Sprintf("Configuration error: %v. Set %s and restart.", err, apiKeyEnv)
	case errors.As(err, &statusErr):
		return fmt.Sprintf("The assistant service returned status %d: %s", statusErr.status, statusErr.body)
	case errors.Is(err, ErrBadResponse):
		return "Sorry, I couldn't read the assistant's response."
	default:
		return fmt.Sprintf("Network error talking to the assistant: %v", err)
	}
}
