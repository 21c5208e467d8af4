package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/mattelier/mattelier-backend/internal/http/handlers"
	httpMW "github.com/mattelier/mattelier-backend/internal/http/middleware"
	"github.com/mattelier/mattelier-backend/internal/platform/logger"
)

type RouterConfig struct {
	Logger      *logger.Logger
	CORSOrigins []string
	ServiceName string

	MaterialHandler  *httpH.MaterialHandler
	ShareHandler     *httpH.ShareHandler
	TransferHandler  *httpH.TransferHandler
	WorkspaceHandler *httpH.WorkspaceHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	if cfg.Logger != nil {
		r.Use(httpMW.RequestLogger(cfg.Logger))
	}
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Materials
		if cfg.MaterialHandler != nil {
			api.GET("/materials", cfg.MaterialHandler.ListMaterials)
			api.PUT("/materials", cfg.MaterialHandler.SaveMaterials)
			api.POST("/materials/complete", cfg.MaterialHandler.CompleteDraft)
			api.POST("/materials/sync", cfg.MaterialHandler.SyncFromRemote)
		}

		// Share links
		if cfg.ShareHandler != nil {
			api.POST("/share/encode", cfg.ShareHandler.Encode)
			api.POST("/share/decode", cfg.ShareHandler.Decode)
		}

		// Import / export
		if cfg.TransferHandler != nil {
			api.POST("/import", cfg.TransferHandler.Import)
			api.GET("/export", cfg.TransferHandler.Export)
		}

		// Workspace slots
		if cfg.WorkspaceHandler != nil {
			api.GET("/material-order", cfg.WorkspaceHandler.GetManualOrder)
			api.PUT("/material-order", cfg.WorkspaceHandler.SaveManualOrder)
			api.GET("/recent-commands", cfg.WorkspaceHandler.RecentCommands)
			api.POST("/recent-commands/:id", cfg.WorkspaceHandler.PushRecentCommand)
			api.GET("/onboarding", cfg.WorkspaceHandler.OnboardingState)
			api.POST("/onboarding/seen", cfg.WorkspaceHandler.MarkOnboardingSeen)
		}
	}

	return r
}
