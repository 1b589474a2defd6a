package chatlog

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/justicebot/justicebot-backend/internal/domain"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type ChatMessageRepo interface {
	// Append assigns consecutive Seq values within the session and inserts all messages.
	Append(dbc dbctx.Context, msgs []*types.ChatMessage) ([]*types.ChatMessage, error)
	// ListRecent returns at most limit messages for the user's session, oldest first.
	ListRecent(dbc dbctx.Context, userID, sessionID string, limit int) ([]*types.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Append(dbc dbctx.Context, msgs []*types.ChatMessage) ([]*types.ChatMessage, error) {
	if len(msgs) == 0 {
		return []*types.ChatMessage{}, nil
	}
	sessionID := strings.TrimSpace(msgs[0].SessionID)
	if sessionID == "" {
		return nil, errors.New("chat message: session id required")
	}
	for _, m := range msgs {
		if m == nil || m.SessionID != sessionID {
			return nil, errors.New("chat message: all messages must share one session")
		}
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	err := txx.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int64
		if err := tx.Model(&types.ChatMessage{}).
			Where("session_id = ?", sessionID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		for i, m := range msgs {
			if m.ID == uuid.Nil {
				m.ID = uuid.New()
			}
			if m.CreatedAt.IsZero() {
				m.CreatedAt = now
			}
			m.Seq = maxSeq + int64(i) + 1
		}
		return tx.Create(&msgs).Error
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *chatMessageRepo) ListRecent(dbc dbctx.Context, userID, sessionID string, limit int) ([]*types.ChatMessage, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	results := []*types.ChatMessage{}
	if strings.TrimSpace(sessionID) == "" {
		return results, nil
	}
	q := txx.WithContext(dbc.Ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Order("seq DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}
