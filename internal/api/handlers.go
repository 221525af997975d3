package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/codelens/internal/assist"
	"github.com/codelens/internal/conversation"
	"github.com/codelens/internal/llm"
	"github.com/codelens/internal/prompts"
	"github.com/codelens/pkg/models"
)

// handleChat serves the proxy contract: the request body carries an already
// assembled code context, and the response is either {content} or {error}
// with a non-2xx status the client pipeline can classify.
func (s *Server) handleChat(c echo.Context) error {
	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
	}
	if req.UserMessage == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "user_message is required"})
	}

	content, err := s.completer.Complete(c.Request().Context(), llm.CompletionRequest{
		SystemPrompt: prompts.BuildSystemPrompt(req.CodeContext, req.Language),
		History:      req.History,
		UserMessage:  req.UserMessage,
	})
	if err != nil {
		classified := llm.Classify(err)
		log.Debug().Str("category", string(classified.Category)).Msg("Chat request failed")
		return c.JSON(statusFor(classified), models.ErrorResponse{Error: classified.Message})
	}

	return c.JSON(http.StatusOK, models.ChatResponse{Content: content})
}

// assistRequest turns a store snapshot plus the new message into a pipeline
// request carrying the server's own credential.
func (s *Server) assistRequest(snap conversation.Snapshot, message string) assist.Request {
	return assist.Request{
		CodeContext: snap.CodeContext,
		UserMessage: message,
		History:     snap.History,
		OpenFiles:   snap.OpenFiles,
		Language:    snap.Language,
		Credential:  s.credential,
	}
}

// statusFor maps failure categories onto HTTP statuses.
func statusFor(err *llm.ClassifiedError) int {
	switch err.Category {
	case llm.CategoryRateLimited:
		return http.StatusTooManyRequests
	case llm.CategoryContextTooLarge:
		return http.StatusRequestEntityTooLarge
	case llm.CategoryCredentialMissing, llm.CategoryCredentialInvalid, llm.CategoryCredentialRejected:
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}

type createThreadRequest struct {
	CodeContext string              `json:"code_context"`
	Range       *conversation.Range `json:"range,omitempty"`
}

func (s *Server) createThread(c echo.Context) error {
	var req createThreadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
	}

	thread := s.store.CreateThread(req.CodeContext, req.Range)
	return c.JSON(http.StatusCreated, thread)
}

func (s *Server) listThreads(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Threads())
}

func (s *Server) deleteThread(c echo.Context) error {
	s.store.RemoveThread(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

type postMessageRequest struct {
	Content string `json:"content"`
}

// postThreadMessage appends the user's message, runs the pipeline against a
// snapshot of the thread, and appends the response when it resolves. Appends
// land in resolution order: overlapping sends on one thread may interleave.
func (s *Server) postThreadMessage(c echo.Context) error {
	threadID := c.Param("id")

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "content is required"})
	}

	snap, err := s.store.SnapshotForThread(threadID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "thread not found"})
	}

	if err := s.store.AppendMessage(threadID, conversation.RoleUser, req.Content); err != nil {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "thread not found"})
	}

	content, err := s.assist.SendMessage(c.Request().Context(), s.assistRequest(snap, req.Content))
	if err != nil {
		classified := llm.Classify(err)
		return c.JSON(statusFor(classified), models.ErrorResponse{Error: classified.Message})
	}

	if err := s.store.AppendMessage(threadID, conversation.RoleAssistant, content); err != nil {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "thread not found"})
	}

	return c.JSON(http.StatusOK, models.ChatResponse{Content: content})
}
