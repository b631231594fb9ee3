package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sheetchat/internal/app"
	"sheetchat/internal/transport/http/response"
)

type LinkHandler struct {
	linkService *app.LinkService
}

type AddLinkRequest struct {
	Name string `json:"name" binding:"required,max=128"`
	URL  string `json:"url" binding:"required,max=1024"`
}

func NewLinkHandler(linkService *app.LinkService) *LinkHandler {
	return &LinkHandler{linkService: linkService}
}

func (h *LinkHandler) Add(c *gin.Context) {
	var req AddLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	entry, err := h.linkService.Add(req.Name, req.URL)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "add link failed")
		return
	}

	response.OK(c, entry)
}

func (h *LinkHandler) List(c *gin.Context) {
	entries, err := h.linkService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list links failed")
		return
	}
	response.OK(c, entries)
}

func (h *LinkHandler) Delete(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid link id")
		return
	}

	if err := h.linkService.Delete(uint(id64)); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrLinkNotFound):
			response.Error(c, http.StatusNotFound, response.CodeLinkNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete link failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_link_id": uint(id64)})
}
