package app

import (
	"gorm.io/gorm"

	"github.com/justicebot/justicebot-backend/internal/data/repos"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type Repos struct {
	EvidenceAnalysis repos.EvidenceAnalysisRepo
	DeviceToken      repos.DeviceTokenRepo
	CaseAssessment   repos.CaseAssessmentRepo
	ChatMessage      repos.ChatMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		EvidenceAnalysis: repos.NewEvidenceAnalysisRepo(db, log),
		DeviceToken:      repos.NewDeviceTokenRepo(db, log),
		CaseAssessment:   repos.NewCaseAssessmentRepo(db, log),
		ChatMessage:      repos.NewChatMessageRepo(db, log),
	}
}
