package devices

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

type DeviceTokenRepo interface {
	Register(dbc dbctx.Context, userID, token, platform string) error
	ListTokens(dbc dbctx.Context, userID string) ([]string, error)
	DeleteTokens(dbc dbctx.Context, userID string, tokens []string) (int64, error)
}

type deviceTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeviceTokenRepo(db *gorm.DB, baseLog *logger.Logger) DeviceTokenRepo {
	return &deviceTokenRepo{db: db, log: baseLog.With("repo", "DeviceTokenRepo")}
}

func (r *deviceTokenRepo) Register(dbc dbctx.Context, userID, token, platform string) error {
	userID = strings.TrimSpace(userID)
	token = strings.TrimSpace(token)
	if userID == "" || token == "" {
		return errors.New("device token: user id and token required")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	row := &types.DeviceToken{
		UserID:    userID,
		Token:     token,
		Platform:  strings.TrimSpace(platform),
		CreatedAt: time.Now().UTC(),
	}
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (r *deviceTokenRepo) ListTokens(dbc dbctx.Context, userID string) ([]string, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	out := []string{}
	if strings.TrimSpace(userID) == "" {
		return out, nil
	}
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.DeviceToken{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("token", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *deviceTokenRepo) DeleteTokens(dbc dbctx.Context, userID string, tokens []string) (int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if strings.TrimSpace(userID) == "" || len(tokens) == 0 {
		return 0, nil
	}
	res := txx.WithContext(dbc.Ctx).
		Where("user_id = ? AND token IN ?", userID, tokens).
		Delete(&types.DeviceToken{})
	return res.RowsAffected, res.Error
}
