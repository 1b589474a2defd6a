package evidence

import (
	"context"
	"fmt"

	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/gcp"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type TokenStore interface {
	ListTokens(dbc dbctx.Context, userID string) ([]string, error)
	DeleteTokens(dbc dbctx.Context, userID string, tokens []string) (int64, error)
}

type Pusher interface {
	Send(ctx context.Context, tokens []string, msg gcp.PushMessage) (gcp.PushResult, error)
}

type Notifier struct {
	log    *logger.Logger
	tokens TokenStore
	push   Pusher
}

func NewNotifier(baseLog *logger.Logger, tokens TokenStore, push Pusher) *Notifier {
	return &Notifier{
		log:    baseLog.With("service", "EvidenceNotifier"),
		tokens: tokens,
		push:   push,
	}
}

func completionMessage(ev AnalysisCreated) gcp.PushMessage {
	return gcp.PushMessage{
		Title: "Evidence processed",
		Body:  "Your document " + ev.DocumentID + " has been analyzed. Open JusticeBot to see the results.",
		Data: map[string]string{
			"type":       "evidence_processed",
			"documentId": ev.DocumentID,
		},
	}
}

// NotifyCreated sends one push to every registered token of the owner. It never retries;
// tokens FCM reports as unregistered are removed afterwards.
func (n *Notifier) NotifyCreated(ctx context.Context, ev AnalysisCreated) error {
	log := n.log.With("document_id", ev.DocumentID, "owner_user_id", ev.OwnerUserID)
	if ev.OwnerUserID == "" {
		log.Warn("analysis has no owner; skipping notification")
		return nil
	}
	tokens, err := n.tokens.ListTokens(dbctx.Of(ctx), ev.OwnerUserID)
	if err != nil {
		return fmt.Errorf("list device tokens: %w", err)
	}
	if len(tokens) == 0 {
		log.Info("owner has no device tokens; nothing to send")
		return nil
	}

	res, err := n.push.Send(ctx, tokens, completionMessage(ev))
	if len(res.Invalid) > 0 {
		if removed, derr := n.tokens.DeleteTokens(dbctx.Of(ctx), ev.OwnerUserID, res.Invalid); derr != nil {
			log.Warn("prune device tokens failed", "error", derr)
		} else {
			log.Info("pruned unregistered device tokens", "removed", removed)
		}
	}
	if err != nil {
		log.Warn("push send failed", "tokens", len(tokens), "error", err)
		return fmt.Errorf("push: %w", err)
	}
	log.Info("push sent", "sent", res.Sent, "failed", res.Failed)
	return nil
}
