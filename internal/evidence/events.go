package evidence

import "strings"

// ObjectFinalized is the storage trigger payload.
type ObjectFinalized struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType,omitempty"`
	Bucket      string `json:"bucket,omitempty"`
}

// AnalysisCreated is emitted when a write created a new analysis record.
type AnalysisCreated struct {
	DocumentID  string `json:"documentId"`
	OwnerUserID string `json:"ownerUserId"`
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
