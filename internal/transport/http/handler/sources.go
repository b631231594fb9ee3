package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetchat/internal/app"
	"sheetchat/internal/source"
	"sheetchat/internal/transport/http/response"
)

// SourceHandler serves the selectable source options. In registry mode they
// come from the link table; in inline mode the caller passes the options
// themselves as the URL-encoded JSON list the legacy front end produces.
type SourceHandler struct {
	listingMode string
	linkService *app.LinkService
}

func NewSourceHandler(listingMode string, linkService *app.LinkService) *SourceHandler {
	return &SourceHandler{listingMode: listingMode, linkService: linkService}
}

func (h *SourceHandler) Options(c *gin.Context) {
	encoded := c.Query("encoded_list")
	if h.listingMode == "inline" || encoded != "" {
		h.inlineOptions(c, encoded)
		return
	}

	options, err := h.linkService.Options(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list sources failed")
		return
	}
	response.OK(c, options)
}

func (h *SourceHandler) inlineOptions(c *gin.Context, encoded string) {
	if encoded == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadListing, "missing encoded_list")
		return
	}

	listing, err := source.ParseInline(encoded)
	if err != nil {
		switch {
		case errors.Is(err, source.ErrListingNotArray),
			errors.Is(err, source.ErrListingEmpty),
			errors.Is(err, source.ErrListingBadItem):
			response.Error(c, http.StatusBadRequest, response.CodeBadListing, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "parse source listing failed")
		}
		return
	}

	options, _ := listing.Options(c.Request.Context())
	response.OK(c, options)
}
