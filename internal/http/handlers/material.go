package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mattelier/mattelier-backend/internal/domain"
	"github.com/mattelier/mattelier-backend/internal/http/response"
	"github.com/mattelier/mattelier-backend/internal/library"
	"github.com/mattelier/mattelier-backend/internal/material"
	"github.com/mattelier/mattelier-backend/internal/platform/apierr"
	"github.com/mattelier/mattelier-backend/internal/platform/logger"
)

type MaterialHandler struct {
	log  *logger.Logger
	repo *library.Repository
	now  func() int64
}

func NewMaterialHandler(log *logger.Logger, repo *library.Repository) *MaterialHandler {
	return &MaterialHandler{
		log:  log.With("handler", "MaterialHandler"),
		repo: repo,
		now:  func() int64 { return time.Now().UnixMilli() },
	}
}

func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	materials := h.repo.LoadAll(c.Request.Context())
	response.RespondOK(c, gin.H{
		"materials": materials,
		"source":    h.repo.Source(),
	})
}

type saveMaterialsRequest struct {
	// Raw objects: every record entering the library goes through the
	// normalizer, including our own front end's.
	Materials []map[string]any `json:"materials"`
}

// SaveMaterials overwrites the whole collection. Records failing
// normalization are dropped, not fatal; the response reports how many
// survived alongside the save outcome.
func (h *MaterialHandler) SaveMaterials(c *gin.Context) {
	var req saveMaterialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	now := h.now()
	materials := make([]domain.Material, 0, len(req.Materials))
	for _, rec := range req.Materials {
		if m := material.Normalize(rec, now); m != nil {
			materials = append(materials, *m)
		}
	}
	if len(materials) < len(req.Materials) {
		h.log.Warn("save dropped records failing normalization",
			"submitted", len(req.Materials), "kept", len(materials))
	}

	result := h.repo.SaveAll(c.Request.Context(), materials)
	if !result.OK {
		response.RespondError(c, http.StatusInternalServerError, "local_save_failed", apierr.ErrLocalSave)
		return
	}
	response.RespondOK(c, gin.H{
		"ok":           result.OK,
		"remoteSynced": result.Remote,
		"saved":        len(materials),
	})
}

type completeDraftRequest struct {
	Draft domain.MaterialDraft `json:"draft"`
}

// CompleteDraft runs the draft builder: a draft with an id is a mutating
// save and gets updatedAt stamped; a draft without one becomes a brand new
// material.
func (h *MaterialHandler) CompleteDraft(c *gin.Context) {
	var req completeDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	now := h.now()
	if req.Draft.ID != "" {
		req.Draft.UpdatedAt = now
	}
	response.RespondOK(c, gin.H{"material": material.FromDraft(req.Draft, now)})
}

// SyncFromRemote hydrates the library from the configured mirror.
func (h *MaterialHandler) SyncFromRemote(c *gin.Context) {
	if h.repo.Source() != library.SourceHTTPWithLocal {
		response.RespondError(c, http.StatusConflict, "remote_not_configured", apierr.ErrNotConfigured)
		return
	}
	materials, ok := h.repo.LoadFromRemote(c.Request.Context())
	if !ok {
		response.RespondError(c, http.StatusBadGateway, "remote_unavailable",
			errors.New("remote mirror did not return a usable collection"))
		return
	}
	response.RespondOK(c, gin.H{"materials": materials})
}
