package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mattelier/mattelier-backend/internal/domain"
	"github.com/mattelier/mattelier-backend/internal/http/response"
	"github.com/mattelier/mattelier-backend/internal/platform/logger"
	"github.com/mattelier/mattelier-backend/internal/share"
)

type ShareHandler struct {
	log *logger.Logger
}

func NewShareHandler(log *logger.Logger) *ShareHandler {
	return &ShareHandler{log: log.With("handler", "ShareHandler")}
}

type encodeShareRequest struct {
	Material        domain.MaterialDraft `json:"material"`
	IncludeTextures bool                 `json:"includeTextures"`
}

func (h *ShareHandler) Encode(c *gin.Context) {
	var req encodeShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	draft := req.Material
	if !req.IncludeTextures {
		draft = share.WithoutTextures(draft)
	}
	encoded, err := share.EncodeV2(share.Payload{
		IncludeTextures: req.IncludeTextures,
		Material:        draft,
	})
	if err != nil {
		h.log.Error("share encode failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "encode_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"encoded": encoded})
}

type decodeShareRequest struct {
	Encoded string `json:"encoded"`
}

func (h *ShareHandler) Decode(c *gin.Context) {
	var req decodeShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	payload := share.Decode(req.Encoded)
	if payload == nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "invalid_share_payload",
			errors.New("the share link could not be decoded"))
		return
	}
	response.RespondOK(c, payload)
}
