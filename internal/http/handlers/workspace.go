package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mattelier/mattelier-backend/internal/http/response"
	"github.com/mattelier/mattelier-backend/internal/library"
	"github.com/mattelier/mattelier-backend/internal/platform/logger"
)

// WorkspaceHandler serves the small per-user workspace slots: manual sort
// order, recent command history, and the onboarding flag.
type WorkspaceHandler struct {
	log  *logger.Logger
	repo *library.Repository
}

func NewWorkspaceHandler(log *logger.Logger, repo *library.Repository) *WorkspaceHandler {
	return &WorkspaceHandler{
		log:  log.With("handler", "WorkspaceHandler"),
		repo: repo,
	}
}

func (h *WorkspaceHandler) GetManualOrder(c *gin.Context) {
	ids := h.repo.LoadManualOrder(c.Request.Context())
	response.RespondOK(c, gin.H{"ids": ids})
}

type saveManualOrderRequest struct {
	IDs []string `json:"ids"`
}

func (h *WorkspaceHandler) SaveManualOrder(c *gin.Context) {
	var req saveManualOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.repo.SaveManualOrder(c.Request.Context(), req.IDs); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "order_save_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *WorkspaceHandler) RecentCommands(c *gin.Context) {
	ids := h.repo.RecentCommands(c.Request.Context())
	response.RespondOK(c, gin.H{"commands": ids})
}

func (h *WorkspaceHandler) PushRecentCommand(c *gin.Context) {
	commandID := strings.TrimSpace(c.Param("id"))
	if commandID == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_command_id",
			errors.New("command id is required"))
		return
	}
	if err := h.repo.PushRecentCommand(c.Request.Context(), commandID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "command_save_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (h *WorkspaceHandler) OnboardingState(c *gin.Context) {
	seen := h.repo.OnboardingSeen(c.Request.Context())
	response.RespondOK(c, gin.H{"seen": seen})
}

func (h *WorkspaceHandler) MarkOnboardingSeen(c *gin.Context) {
	if err := h.repo.MarkOnboardingSeen(c.Request.Context()); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "onboarding_save_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"seen": true})
}
