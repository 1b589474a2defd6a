package evidenceflow

const (
	WorkflowName    = "evidence_process"
	ActivityProcess = "evidence_process_object"
	ActivityNotify  = "evidence_notify_owner"
)

// WorkflowID is derived from the object name so concurrent finalize events for one object share a run.
func WorkflowID(objectName string) string {
	return "evidence:" + objectName
}

type ProcessResult struct {
	Status      string `json:"status"`
	DocumentID  string `json:"document_id,omitempty"`
	OwnerUserID string `json:"owner_user_id,omitempty"`
	Created     bool   `json:"created"`
}
