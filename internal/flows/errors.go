package flows

import (
	"fmt"

	"github.com/justicebot/justicebot-backend/internal/flows/prompts"
)

// ErrInvalidInput is returned when a flow's input fails validation. Handlers map it to 400.
var ErrInvalidInput = prompts.ErrInvalidInput

// MalformedResponseError reports model output that could not be decoded or failed validation.
type MalformedResponseError struct {
	Flow   string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flow %s: malformed model response: %s: %v", e.Flow, e.Reason, e.Err)
	}
	return fmt.Sprintf("flow %s: malformed model response: %s", e.Flow, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
