package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sheetchat/internal/app"
	"sheetchat/internal/dataset"
	"sheetchat/internal/source"
	"sheetchat/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
	sessions    *app.SessionStore
}

func NewChatHandler(chatService *app.ChatService, sessions *app.SessionStore) *ChatHandler {
	return &ChatHandler{chatService: chatService, sessions: sessions}
}

type SelectSourceRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	LinkID    uint   `json:"link_id"`
	URL       string `json:"url"`
}

type SendMessageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	session := h.sessions.Create()
	response.OK(c, gin.H{"session_id": session.ID})
}

func (h *ChatHandler) SelectSource(c *gin.Context) {
	var req SelectSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.SelectSource(c.Request.Context(), app.SelectSourceInput{
		SessionID: req.SessionID,
		LinkID:    req.LinkID,
		URL:       req.URL,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, source.ErrInvalidSourceFormat):
			response.Error(c, http.StatusBadRequest, response.CodeBadSourceFormat, err.Error())
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		case errors.Is(err, app.ErrLinkNotFound):
			response.Error(c, http.StatusNotFound, response.CodeLinkNotFound, err.Error())
		case errors.Is(err, dataset.ErrFetch), errors.Is(err, dataset.ErrParse):
			response.Error(c, http.StatusUnprocessableEntity, response.CodeLoadFailed, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "select source failed")
		}
		return
	}

	response.OK(c, result)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	reply, err := h.chatService.Answer(c.Request.Context(), app.SendMessageInput{
		SessionID: req.SessionID,
		Content:   req.Content,
	})
	if err != nil {
		h.writeSendError(c, err)
		return
	}

	response.OK(c, gin.H{"reply": reply})
}

func (h *ChatHandler) StreamMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "stream not supported")
		return
	}

	full, err := h.chatService.StreamAnswer(c.Request.Context(), app.SendMessageInput{
		SessionID: req.SessionID,
		Content:   req.Content,
	}, func(chunk string) error {
		if _, writeErr := c.Writer.Write([]byte("data: " + sanitizeSSE(chunk) + "\n\n")); writeErr != nil {
			return writeErr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// The failed turn surfaces as an error reply; the session history is
		// untouched so the question can be retried.
		if _, writeErr := c.Writer.Write([]byte("event: error\ndata: " + sanitizeSSE(errorReply(err)) + "\n\n")); writeErr == nil {
			flusher.Flush()
		}
		return
	}

	if _, writeErr := c.Writer.Write([]byte("event: done\ndata: " + sanitizeSSE(full) + "\n\n")); writeErr == nil {
		flusher.Flush()
	}
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing session_id")
		return
	}

	history, err := h.chatService.History(sessionID)
	if err != nil {
		if errors.Is(err, app.ErrSessionNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		return
	}

	response.OK(c, history)
}

func (h *ChatHandler) writeSendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrMessageEmpty):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
	case errors.Is(err, app.ErrLLMConfig):
		response.Error(c, http.StatusServiceUnavailable, response.CodeLLMConfig, err.Error())
	default:
		response.Error(c, http.StatusBadGateway, response.CodeInternalServer, errorReply(err))
	}
}

// errorReply is the reply text shown for a failed turn, shared by the
// streaming and non-streaming paths.
func errorReply(err error) string {
	return fmt.Sprintf("Error: %s", err.Error())
}

func sanitizeSSE(input string) string {
	replaced := strings.ReplaceAll(input, "\r\n", "\\n")
	replaced = strings.ReplaceAll(replaced, "\n", "\\n")
	return replaced
}
