package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/justicebot/justicebot-backend/internal/http/handlers"
	httpMW "github.com/justicebot/justicebot-backend/internal/http/middleware"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler       *httpH.HealthHandler
	ConfigHandler       *httpH.ConfigHandler
	RecaptchaHandler    *httpH.RecaptchaHandler
	StorageEventHandler *httpH.StorageEventHandler
	FormsHandler        *httpH.FormsHandler

	UploadHandler   *httpH.UploadHandler
	ChatHandler     *httpH.ChatHandler
	CaseHandler     *httpH.CaseHandler
	EvidenceHandler *httpH.EvidenceHandler
	DeviceHandler   *httpH.DeviceHandler
	FlowHandler     *httpH.FlowHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "justicebot-api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.ConfigHandler != nil {
			api.GET("/config/public", cfg.ConfigHandler.Public)
		}
		if cfg.RecaptchaHandler != nil {
			api.POST("/recaptcha/verify", cfg.RecaptchaHandler.Verify)
		}
		// Storage notifications authenticate with the webhook token, not a user token.
		if cfg.StorageEventHandler != nil {
			api.POST("/events/storage", cfg.StorageEventHandler.Receive)
		}
		if cfg.FormsHandler != nil {
			api.GET("/forms", cfg.FormsHandler.List)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Evidence
		if cfg.UploadHandler != nil {
			protected.POST("/upload", cfg.UploadHandler.Upload)
		}
		if cfg.EvidenceHandler != nil {
			protected.GET("/evidence", cfg.EvidenceHandler.List)
			protected.GET("/evidence/:documentId", cfg.EvidenceHandler.Get)
		}

		// Chat + cases
		if cfg.ChatHandler != nil {
			protected.POST("/chat", cfg.ChatHandler.Chat)
		}
		if cfg.CaseHandler != nil {
			protected.POST("/cases/assess", cfg.CaseHandler.Assess)
			protected.GET("/cases/latest", cfg.CaseHandler.Latest)
		}

		// Push tokens
		if cfg.DeviceHandler != nil {
			protected.POST("/devices", cfg.DeviceHandler.Register)
			protected.DELETE("/devices/:token", cfg.DeviceHandler.Delete)
		}

		// One-shot flows
		if cfg.FlowHandler != nil {
			flowsG := protected.Group("/flows")
			flowsG.POST("/classify-document", cfg.FlowHandler.ClassifyDocument)
			flowsG.POST("/suggest-legal-forms", cfg.FlowHandler.SuggestLegalForms)
			flowsG.POST("/find-court", cfg.FlowHandler.FindCourt)
			flowsG.POST("/legal-timeline", cfg.FlowHandler.LegalTimeline)
			flowsG.POST("/precedents", cfg.FlowHandler.Precedents)
			flowsG.POST("/explain-document", cfg.FlowHandler.ExplainDocument)
			flowsG.POST("/charter-analysis", cfg.FlowHandler.CharterAnalysis)
			flowsG.POST("/summarize-law", cfg.FlowHandler.SummarizeLaw)
		}
	}

	return r
}
