package evidenceflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/justicebot/justicebot-backend/internal/evidence"
)

// Workflow processes one finalized object, then notifies the owner if a new record was created.
// A failed notification does not fail the run.
func Workflow(ctx workflow.Context, ev evidence.ObjectFinalized) (ProcessResult, error) {
	processCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})
	var res ProcessResult
	if err := workflow.ExecuteActivity(processCtx, ActivityProcess, ev).Get(ctx, &res); err != nil {
		return ProcessResult{}, err
	}
	if !res.Created {
		return res, nil
	}

	notifyCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	})
	created := evidence.AnalysisCreated{DocumentID: res.DocumentID, OwnerUserID: res.OwnerUserID}
	if err := workflow.ExecuteActivity(notifyCtx, ActivityNotify, created).Get(ctx, nil); err != nil {
		workflow.GetLogger(ctx).Warn("owner notification failed", "document_id", res.DocumentID, "error", err)
	}
	return res, nil
}
