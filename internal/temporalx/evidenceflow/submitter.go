package evidenceflow

import (
	"context"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/justicebot/justicebot-backend/internal/evidence"
)

// Submitter starts one workflow per finalize event.
type Submitter struct {
	tc        temporalsdkclient.Client
	taskQueue string
}

func NewSubmitter(tc temporalsdkclient.Client, taskQueue string) *Submitter {
	return &Submitter{tc: tc, taskQueue: taskQueue}
}

func (s *Submitter) Submit(ctx context.Context, ev evidence.ObjectFinalized) error {
	if s == nil || s.tc == nil {
		return fmt.Errorf("temporal client is not configured")
	}
	_, err := s.tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:                    WorkflowID(ev.Name),
		TaskQueue:             s.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, WorkflowName, ev)
	if err != nil {
		return fmt.Errorf("start evidence workflow: %w", err)
	}
	return nil
}
