package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/codelens/internal/assist"
	"github.com/codelens/internal/conversation"
	"github.com/codelens/internal/llm"
	"github.com/codelens/internal/proxy"
	"github.com/codelens/internal/retry"
)

// Server is the trusted review service the browser pipeline targets. It
// serves the proxy chat endpoint with its own provider credential, plus
// thread management routes backed by an in-memory conversation store.
type Server struct {
	echo       *echo.Echo
	port       int
	completer  llm.Completer
	assist     *assist.Service
	store      *conversation.Store
	credential string
}

// Options configures a Server.
type Options struct {
	Port         int
	RateLimit    float64 // chat requests per second per client
	AIConfig     llm.Config
	NewCompleter func(llm.Config) (llm.Completer, error)
	Retry        *retry.Config // nil means retry.ProviderConfig()
}

// NewServer wires routes and middleware. The completer factory defaults to
// the production provider client.
func NewServer(opts Options) (*Server, error) {
	factory := opts.NewCompleter
	if factory == nil {
		factory = func(cfg llm.Config) (llm.Completer, error) {
			return llm.NewClient(cfg)
		}
	}

	base, err := factory(opts.AIConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider client: %w", err)
	}
	retryConfig := retry.ProviderConfig()
	if opts.Retry != nil {
		retryConfig = *opts.Retry
	}
	completer := &retryingCompleter{inner: base, config: retryConfig}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := &Server{
		echo:       e,
		port:       opts.Port,
		completer:  completer,
		store:      conversation.NewStore(),
		credential: opts.AIConfig.APIKey,
	}

	// The thread routes run the same pipeline the browser does, with an
	// unconfigured proxy client: this server IS the proxy, so its own
	// invocations always take the direct path.
	server.assist = assist.NewServiceWithCompleter(
		proxy.NewClient(""),
		func(llm.Config) (llm.Completer, error) { return completer, nil },
		assist.Config{Model: opts.AIConfig.Model, Temperature: opts.AIConfig.Temperature, MaxTokens: opts.AIConfig.MaxTokens},
	)

	server.setupRoutes(opts.RateLimit)

	return server, nil
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes(rateLimit float64) {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	v1 := s.echo.Group("/api/v1")

	chat := v1.Group("/ai")
	if rateLimit > 0 {
		chat.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(rateLimit))))
	}
	chat.POST("/chat", s.handleChat)

	v1.POST("/threads", s.createThread)
	v1.GET("/threads", s.listThreads)
	v1.DELETE("/threads/:id", s.deleteThread)
	v1.POST("/threads/:id/messages", s.postThreadMessage)
}

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start begins the API server and blocks until interrupted.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

// retryingCompleter wraps a Completer with backoff for transient upstream
// failures. Only the server side retries; the client pipeline is single-shot.
type retryingCompleter struct {
	inner  llm.Completer
	config retry.Config
}

func (r *retryingCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	var response string
	result := retry.Do(ctx, r.config, func() error {
		var err error
		response, err = r.inner.Complete(ctx, req)
		return err
	})
	if !result.Success {
		return "", result.LastError
	}
	return response, nil
}
