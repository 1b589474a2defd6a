package evidence

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/justicebot/justicebot-backend/internal/domain"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type EvidenceAnalysisRepo interface {
	// Upsert writes the record keyed by DocumentID, overwriting any previous one.
	// created is true only for the write that inserted the row.
	Upsert(dbc dbctx.Context, row *types.EvidenceAnalysis) (created bool, err error)
	GetByDocumentID(dbc dbctx.Context, documentID string) (*types.EvidenceAnalysis, error)
	ListByOwner(dbc dbctx.Context, ownerUserID string, limit int) ([]*types.EvidenceAnalysis, error)
}

type evidenceAnalysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvidenceAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) EvidenceAnalysisRepo {
	return &evidenceAnalysisRepo{db: db, log: baseLog.With("repo", "EvidenceAnalysisRepo")}
}

func (r *evidenceAnalysisRepo) Upsert(dbc dbctx.Context, row *types.EvidenceAnalysis) (bool, error) {
	if row == nil || strings.TrimSpace(row.DocumentID) == "" {
		return false, errors.New("evidence analysis: document id required")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	q := txx.WithContext(dbc.Ctx)

	// The insert decides created: of concurrent writers for one document only one
	// inserts, the rest fall through to the update.
	res := q.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "document_id"}},
		DoNothing: true,
	}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}
	err := q.Model(row).Select(overwriteColumns).Updates(row).Error
	if err != nil {
		return false, err
	}
	return false, nil
}

var overwriteColumns = []string{
	"owner_user_id",
	"object_name",
	"content_type",
	"extracted_text",
	"classification",
	"suggested_forms",
	"merit_score",
	"explanation",
	"created_at",
}

func (r *evidenceAnalysisRepo) GetByDocumentID(dbc dbctx.Context, documentID string) (*types.EvidenceAnalysis, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row types.EvidenceAnalysis
	err := txx.WithContext(dbc.Ctx).Where("document_id = ?", documentID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *evidenceAnalysisRepo) ListByOwner(dbc dbctx.Context, ownerUserID string, limit int) ([]*types.EvidenceAnalysis, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var results []*types.EvidenceAnalysis
	if strings.TrimSpace(ownerUserID) == "" {
		return results, nil
	}
	q := txx.WithContext(dbc.Ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
