package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"talentflow-backend/internal/scoring"
)

const apiURL = "https://api.openai.com/v1/chat/completions"

// Client implements scoring.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("SCORING_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *Client) ScoreApplication(ctx context.Context, input scoring.Input) (scoring.Result, error) {
	raw, err := c.complete(ctx, BuildPrompt(input.ResumeText, input.JobID, input.Notes))
	if err != nil {
		return scoring.Result{}, err
	}
	result, err := ParseResult(raw)
	if err != nil {
		return scoring.Result{}, fmt.Errorf("openai scoring output: %w", err)
	}
	return result, nil
}

func (c *Client) complete(ctx context.Context, messages []Message) (json.RawMessage, error) {
	reqMessages := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, chatMessage{Role: m.Role, Content: m.Content})
	}
	temp := float32(0)
	reqBody := chatRequest{
		Model:    c.model,
		Messages: reqMessages,
		ResponseFormat: responseFormat{
			Type: "json_object",
		},
	}
	reqBody.Temperature = &temp
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("openai request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("openai response empty content")
	}
	if usage := parsed.Usage; usage != nil {
		log.Printf("scoring response model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
			c.model, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
	}
	return json.RawMessage(content), nil
}

// ParseResult decodes a scoring verdict, tolerating the score arriving as a
// number or a numeric string.
func ParseResult(raw json.RawMessage) (scoring.Result, error) {
	var loose struct {
		Score any    `json:"score"`
		Notes string `json:"notes"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&loose); err != nil {
		return scoring.Result{}, err
	}
	score, err := scoreValue(loose.Score)
	if err != nil {
		return scoring.Result{}, err
	}
	return scoring.Result{
		Score: scoring.ClampScore(score),
		Notes: strings.TrimSpace(loose.Notes),
	}, nil
}

func scoreValue(v any) (int, error) {
	switch score := v.(type) {
	case json.Number:
		if n, err := score.Int64(); err == nil {
			return int(n), nil
		}
		// some models emit fractional scores
		f, err := score.Float64()
		if err != nil {
			return 0, fmt.Errorf("score %q is not numeric", score)
		}
		return int(f), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(score))
		if err != nil {
			return 0, fmt.Errorf("score %q is not numeric", score)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("missing score")
	default:
		return 0, fmt.Errorf("score has unexpected type %T", v)
	}
}

var _ scoring.Client = (*Client)(nil)
