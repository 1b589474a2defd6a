package app

import (
	"gorm.io/gorm"

	"github.com/justicebot/justicebot-backend/internal/http"
	httpH "github.com/justicebot/justicebot-backend/internal/http/handlers"
	httpMW "github.com/justicebot/justicebot-backend/internal/http/middleware"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, db *gorm.DB, clients Clients, reposet Repos, services Services) *http.Server {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	return http.NewServer(http.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, clients.Verifier),

		HealthHandler:       httpH.NewHealthHandler(pinger),
		ConfigHandler:       httpH.NewConfigHandler(cfg.Public),
		RecaptchaHandler:    httpH.NewRecaptchaHandler(log, clients.Recaptcha),
		StorageEventHandler: httpH.NewStorageEventHandler(log, services.Submitter, cfg.StorageWebhookToken),
		FormsHandler:        httpH.NewFormsHandler(services.Catalog),

		UploadHandler:   httpH.NewUploadHandler(log, clients.Bucket, cfg.MaxUploadBytes),
		ChatHandler:     httpH.NewChatHandler(log, services.Flows, reposet.ChatMessage, reposet.CaseAssessment),
		CaseHandler:     httpH.NewCaseHandler(log, services.Flows, reposet.CaseAssessment),
		EvidenceHandler: httpH.NewEvidenceHandler(reposet.EvidenceAnalysis),
		DeviceHandler:   httpH.NewDeviceHandler(reposet.DeviceToken),
		FlowHandler:     httpH.NewFlowHandler(services.Flows),
	})
}
