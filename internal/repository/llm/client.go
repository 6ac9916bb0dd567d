package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/IronRon/Adaptive-Landing-AI/business/recommend"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/metrics"
)

type Config struct {
	BaseURL          string
	APIKey           string
	Model            string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
	IncludeAssets    bool
}

// Client calls an OpenAI-compatible chat completions endpoint behind a
// circuit breaker.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[string]
}

var _ recommend.ModelClient = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	threshold := cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "recommend-model",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// a visitor leaving mid-request says nothing about the model
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.ModelBreakerState.Set(stateValue(to))
		},
	})

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cb:         cb,
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the model's raw text answer.
func (c *Client) Complete(ctx context.Context, prompt recommend.PromptContext) (string, error) {
	text, err := BuildPrompt(prompt, c.cfg.IncludeAssets)
	if err != nil {
		return "", err
	}

	out, err := c.cb.Execute(func() (string, error) {
		return c.chat(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.ModelRequests.WithLabelValues("rejected").Inc()
			return "", fmt.Errorf("model circuit open: %w", err)
		}
		metrics.ModelRequests.WithLabelValues("failure").Inc()
		return "", err
	}

	metrics.ModelRequests.WithLabelValues("success").Inc()
	return out, nil
}

func (c *Client) chat(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: text}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("model api returned status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("model response has no choices")
	}

	content := decoded.Choices[0].Message.Content
	logger.Info("model response", "preview", preview(content, 200))

	return content, nil
}

func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	if len(s) > n {
		return s[:n]
	}
	return s
}
