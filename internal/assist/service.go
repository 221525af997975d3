package assist

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/codelens/internal/llm"
	"github.com/codelens/internal/prompts"
	"github.com/codelens/internal/proxy"
	"github.com/codelens/pkg/models"
)

// ProxyCaller is the trusted-endpoint transport. Satisfied by *proxy.Client.
type ProxyCaller interface {
	Chat(ctx context.Context, req models.ChatRequest) proxy.Outcome
}

// CompleterFactory builds a direct provider client from per-request
// credentials. The default wires llm.NewClient.
type CompleterFactory func(config llm.Config) (llm.Completer, error)

// Config holds the model parameters used for direct provider calls.
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Request is a point-in-time snapshot of everything one pipeline invocation
// needs. The caller snapshots editor/store state before invoking; the
// pipeline itself never reads shared state, which keeps concurrent
// invocations free of locking.
type Request struct {
	CodeContext string
	UserMessage string
	History     []models.ChatMessage
	OpenFiles   []models.OpenFile
	Language    string
	Credential  string
}

// Service runs the assist pipeline: assemble context, try the proxy, fall
// back to a direct provider call when the proxy is absent.
type Service struct {
	proxy        ProxyCaller
	newCompleter CompleterFactory
	config       Config
}

// NewService builds the production pipeline against proxyClient.
func NewService(proxyClient ProxyCaller, config Config) *Service {
	return &Service{
		proxy: proxyClient,
		newCompleter: func(cfg llm.Config) (llm.Completer, error) {
			return llm.NewClient(cfg)
		},
		config: config,
	}
}

// NewServiceWithCompleter is NewService with an injectable provider factory.
func NewServiceWithCompleter(proxyClient ProxyCaller, factory CompleterFactory, config Config) *Service {
	return &Service{proxy: proxyClient, newCompleter: factory, config: config}
}

// SendMessage runs one self-contained pipeline invocation and returns the
// model's response text. Every failure is a *llm.ClassifiedError. There are
// no retries and no request queuing: callers issuing overlapping requests
// for one thread must expect responses to resolve out of send order.
func (s *Service) SendMessage(ctx context.Context, req Request) (string, error) {
	assembled := assemble(req.CodeContext, req.OpenFiles, req.History)

	outcome := s.proxy.Chat(ctx, models.ChatRequest{
		CodeContext: assembled.EnhancedContext,
		UserMessage: req.UserMessage,
		History:     assembled.LimitedHistory,
		Language:    req.Language,
	})

	switch outcome.Kind {
	case proxy.OutcomeOK:
		log.Debug().Msg("Proxy answered, returning response")
		return outcome.Content, nil

	case proxy.OutcomeHTTPError:
		// A reached proxy's rejection is authoritative: no fallback.
		log.Debug().Int("status", outcome.Status).Msg("Proxy rejected request, propagating")
		return "", classifyProxyFailure(outcome)

	case proxy.OutcomeUnreachable:
		// The one recoverable outcome.
		log.Debug().Str("reason", outcome.Message).Msg("Proxy unreachable, falling back to direct call")
	}

	return s.sendDirect(ctx, req, assembled)
}

// sendDirect issues the fallback provider call with the user's credential.
func (s *Service) sendDirect(ctx context.Context, req Request, assembled assembledContext) (string, error) {
	if req.Credential == "" {
		return "", llm.ErrCredentialMissing()
	}
	if !llm.ValidCredential(req.Credential) {
		return "", llm.ErrCredentialInvalid()
	}

	completer, err := s.newCompleter(llm.Config{
		APIKey:      req.Credential,
		Model:       s.config.Model,
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	})
	if err != nil {
		return "", llm.Classify(err)
	}

	response, err := completer.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: prompts.BuildSystemPrompt(assembled.EnhancedContext, req.Language),
		History:      assembled.LimitedHistory,
		UserMessage:  req.UserMessage,
	})
	if err != nil {
		return "", llm.Classify(err)
	}

	return response, nil
}

// classifyProxyFailure runs the server-reported message through the shared
// classifier so rate limits and context overflows surface as themselves;
// anything unrecognized becomes a proxy error rather than Unknown.
func classifyProxyFailure(outcome proxy.Outcome) *llm.ClassifiedError {
	classified := llm.Classify(errors.New(outcome.Message))
	if classified.Category == llm.CategoryUnknown {
		return llm.ErrProxy(outcome.Message)
	}
	return classified
}
