package repos

import (
	"github.com/justicebot/justicebot-backend/internal/data/repos/cases"
	"github.com/justicebot/justicebot-backend/internal/data/repos/chatlog"
	"github.com/justicebot/justicebot-backend/internal/data/repos/devices"
	"github.com/justicebot/justicebot-backend/internal/data/repos/evidence"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type EvidenceAnalysisRepo = evidence.EvidenceAnalysisRepo
type DeviceTokenRepo = devices.DeviceTokenRepo
type CaseAssessmentRepo = cases.CaseAssessmentRepo
type ChatMessageRepo = chatlog.ChatMessageRepo

func NewEvidenceAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) EvidenceAnalysisRepo {
	return evidence.NewEvidenceAnalysisRepo(db, baseLog)
}

func NewDeviceTokenRepo(db *gorm.DB, baseLog *logger.Logger) DeviceTokenRepo {
	return devices.NewDeviceTokenRepo(db, baseLog)
}

func NewCaseAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) CaseAssessmentRepo {
	return cases.NewCaseAssessmentRepo(db, baseLog)
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return chatlog.NewChatMessageRepo(db, baseLog)
}
