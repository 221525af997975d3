package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/codelens/pkg/models"
)

// CredentialPrefix is the expected prefix of a provider API key.
const CredentialPrefix = "sk-"

// CompletionRequest carries one fully assembled chat-completion call.
type CompletionRequest struct {
	SystemPrompt string
	History      []models.ChatMessage
	UserMessage  string
}

// Completer is the direct model-provider interface. The production
// implementation is Client; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Config holds provider call parameters. A zero Temperature selects the
// 0.7 default; an exact temperature of 0 is not expressible.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Client calls the model provider through langchaingo's OpenAI-compatible
// chat-completion API.
type Client struct {
	llm    llms.Model
	config Config
}

// ValidCredential reports whether key looks like a provider API key. This is
// a local shape check only; the provider still decides at call time.
func ValidCredential(key string) bool {
	return strings.HasPrefix(key, CredentialPrefix)
}

// NewClient initializes the underlying model client. Defaults: gpt-4o-mini,
// temperature 0.7, 2000 output tokens.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrCredentialMissing()
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 2000
	}

	model, err := openai.New(
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}

	return &Client{llm: model, config: config}, nil
}

// Complete issues one chat-completion call with the ordered message list:
// system prompt, retained history, then the new user message.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]llms.MessageContent, 0, len(req.History)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt))

	for _, msg := range req.History {
		role := llms.ChatMessageTypeHuman
		if msg.Role == models.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}

	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.UserMessage))

	log.Debug().
		Str("model", c.config.Model).
		Int("messages", len(messages)).
		Int("max_tokens", c.config.MaxTokens).
		Msg("Calling model provider directly")

	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(c.config.Temperature),
		llms.WithMaxTokens(c.config.MaxTokens),
	)
	if err != nil {
		log.Debug().Err(err).Msg("Direct provider call failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("provider returned no completion choices")
	}

	return resp.Choices[0].Content, nil
}
