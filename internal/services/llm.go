// OpenAI-compatible chat completions [Completer]
package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/ytblog/internal/shared"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	DefaultLLMBaseURL  = "https://api.groq.com/openai/v1"
	DefaultLLMModel    = "llama-3.1-8b-instant"
	DefaultTemperature = 0.2
)

// OpenAICompleter implements [Completer] using the openai-go SDK.
type OpenAICompleter struct {
	client      openai.Client
	model       string
	temperature float64
}

// NewOpenAICompleter creates a completer from the LLM config section.
//
// Extra options are appended after the config-derived ones, so tests can override the base URL or retries.
func NewOpenAICompleter(cfg shared.LLMConfig, httpClient *http.Client, extra ...option.RequestOption) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		env := cfg.APIKeyEnv
		if env == "" {
			env = "GROQ_API_KEY"
		}
		return nil, fmt.Errorf("%w: set llm.api_key or %s", shared.ErrMissingCredentials, env)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultLLMBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/"),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	opts = append(opts, extra...)

	return &OpenAICompleter{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Model returns the configured model name.
func (o *OpenAICompleter) Model() string {
	return o.model
}

// Complete sends system and prompt as a two message conversation and returns the reply text.
func (o *OpenAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(o.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", shared.ErrAPIRequest, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", shared.ErrAPIRequest)
	}

	return resp.Choices[0].Message.Content, nil
}
