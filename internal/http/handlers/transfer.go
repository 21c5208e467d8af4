package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mattelier/mattelier-backend/internal/http/response"
	"github.com/mattelier/mattelier-backend/internal/library"
	"github.com/mattelier/mattelier-backend/internal/platform/apierr"
	"github.com/mattelier/mattelier-backend/internal/platform/logger"
	"github.com/mattelier/mattelier-backend/internal/transfer"
)

type TransferHandler struct {
	log  *logger.Logger
	repo *library.Repository
	now  func() int64
}

func NewTransferHandler(log *logger.Logger, repo *library.Repository) *TransferHandler {
	return &TransferHandler{
		log:  log.With("handler", "TransferHandler"),
		repo: repo,
		now:  func() int64 { return time.Now().UnixMilli() },
	}
}

// Import validates an uploaded JSON file and appends the surviving
// materials to the library. Existing materials are never overwritten:
// colliding ids are re-minted by the validator before the merge.
func (h *TransferHandler) Import(c *gin.Context) {
	if err := transfer.CheckImportFileSize(c.Request.ContentLength); err != nil {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "import_too_large", err)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, transfer.MaxImportFileBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable_body", err)
		return
	}
	if err := transfer.CheckImportFileSize(int64(len(raw))); err != nil {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "import_too_large", err)
		return
	}

	ctx := c.Request.Context()
	existing := h.repo.LoadAll(ctx)
	result := transfer.ParseImport(string(raw), existing, h.now())
	if !result.OK {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	merged := append(existing, result.Materials...)
	saved := h.repo.SaveAll(ctx, merged)
	if !saved.OK {
		response.RespondError(c, http.StatusInternalServerError, "local_save_failed", apierr.ErrLocalSave)
		return
	}
	h.log.Info("import merged into library",
		"imported", len(result.Materials), "total", len(merged))
	response.RespondOK(c, gin.H{
		"ok":           true,
		"imported":     len(result.Materials),
		"total":        len(merged),
		"remoteSynced": saved.Remote,
	})
}

// Export returns the whole library wrapped in the export envelope, served
// as an attachment so browsers download it as a file.
func (h *TransferHandler) Export(c *gin.Context) {
	materials := h.repo.LoadAll(c.Request.Context())
	envelope := transfer.BuildExport(materials, h.now())
	c.Header("Content-Disposition", `attachment; filename="materials-export.json"`)
	c.JSON(http.StatusOK, envelope)
}
