package evidenceflow

import (
	"context"
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/justicebot/justicebot-backend/internal/evidence"
	"github.com/justicebot/justicebot-backend/internal/flows"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type Activities struct {
	Log      *logger.Logger
	Pipeline evidence.Processor
	Notifier evidence.CreatedNotifier
}

func (a *Activities) Process(ctx context.Context, ev evidence.ObjectFinalized) (ProcessResult, error) {
	out, err := a.Pipeline.Process(ctx, ev)
	if err != nil {
		var merr *flows.MalformedResponseError
		if errors.As(err, &merr) {
			return ProcessResult{}, temporal.NewNonRetryableApplicationError(err.Error(), "MalformedResponse", err)
		}
		return ProcessResult{}, err
	}
	res := ProcessResult{Status: string(out.Status), Created: out.Created}
	if out.Record != nil {
		res.DocumentID = out.Record.DocumentID
		res.OwnerUserID = out.Record.OwnerUserID
	}
	return res, nil
}

func (a *Activities) Notify(ctx context.Context, ev evidence.AnalysisCreated) error {
	if err := a.Notifier.NotifyCreated(ctx, ev); err != nil {
		if a.Log != nil {
			a.Log.Warn("evidence notification failed", "document_id", ev.DocumentID, "error", err)
		}
		return temporal.NewNonRetryableApplicationError(err.Error(), "NotifyFailed", err)
	}
	return nil
}
