package flavor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultCompletionsURL = "https://api.openai.com/v1/chat/completions"

// OpenAI generates text through the chat-completions API. Any transport or
// decode problem is returned to the caller, which falls back to canned text.
type OpenAI struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// NewOpenAI builds a generator with sane request timeouts.
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: defaultCompletionsURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (o *OpenAI) Describe(ctx context.Context, playerName, roleLabel string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a funny 2-sentence description for %s who won the %q role. Keep it light, friendly, and playful - no mean teasing.",
		playerName, roleLabel,
	)
	return o.complete(ctx, prompt)
}

func (o *OpenAI) Title(ctx context.Context, playerName string, earnedRoles []string) (string, error) {
	prompt := fmt.Sprintf(
		"Create a funny 2-4 word master title for %s who won these roles: %s. Make it catchy and memorable.",
		playerName, strings.Join(earnedRoles, ", "),
	)
	text, err := o.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.NewReplacer(`"`, "", "'", "").Replace(text), nil
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:       o.Model,
		Messages:    []completionMessage{{Role: "user", Content: prompt}},
		Temperature: 0.8,
		MaxTokens:   100,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completions request failed: %s", resp.Status)
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("completions response had no choices")
	}
	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}
