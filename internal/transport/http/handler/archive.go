package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sheetchat/internal/model"
	"sheetchat/internal/transport/http/response"
)

// ArchiveReader reads the turn audit trail.
type ArchiveReader interface {
	ListBySessionID(sessionID string, limit int) ([]model.ArchivedMessage, error)
}

// ArchiveHandler is the operator surface over the turn archive. Sessions
// never load their history from here; the archive stays write-only for chat.
type ArchiveHandler struct {
	archive ArchiveReader
}

func NewArchiveHandler(archive ArchiveReader) *ArchiveHandler {
	return &ArchiveHandler{archive: archive}
}

func (h *ArchiveHandler) List(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing session_id")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	messages, err := h.archive.ListBySessionID(sessionID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list archive failed")
		return
	}

	response.OK(c, messages)
}
