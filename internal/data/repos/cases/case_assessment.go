package cases

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/justicebot/justicebot-backend/internal/domain"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type CaseAssessmentRepo interface {
	Create(dbc dbctx.Context, row *types.CaseAssessment) (*types.CaseAssessment, error)
	LatestByUser(dbc dbctx.Context, userID string) (*types.CaseAssessment, error)
}

type caseAssessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCaseAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) CaseAssessmentRepo {
	return &caseAssessmentRepo{db: db, log: baseLog.With("repo", "CaseAssessmentRepo")}
}

func (r *caseAssessmentRepo) Create(dbc dbctx.Context, row *types.CaseAssessment) (*types.CaseAssessment, error) {
	if row == nil {
		return nil, errors.New("case assessment: nil row")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := txx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// LatestByUser returns nil, nil when the user has no assessments.
func (r *caseAssessmentRepo) LatestByUser(dbc dbctx.Context, userID string) (*types.CaseAssessment, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row types.CaseAssessment
	err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
