package domain

import (
	"time"

	"gorm.io/datatypes"
)

// EvidenceAnalysis is the per-upload result of the evidence pipeline.
// DocumentID is the uploaded object's filename stem, so re-uploads overwrite.
type EvidenceAnalysis struct {
	DocumentID     string                      `gorm:"column:document_id;type:text;primaryKey" json:"documentId"`
	OwnerUserID    string                      `gorm:"column:owner_user_id;type:text;not null;index" json:"ownerUserId"`
	ObjectName     string                      `gorm:"column:object_name;type:text;not null" json:"objectName"`
	ContentType    string                      `gorm:"column:content_type;type:text" json:"contentType"`
	ExtractedText  string                      `gorm:"column:extracted_text;type:text;not null" json:"extractedText"`
	Classification string                      `gorm:"column:classification;type:text" json:"classification"`
	SuggestedForms datatypes.JSONSlice[string] `gorm:"column:suggested_forms" json:"suggestedForms"`
	MeritScore     float64                     `gorm:"column:merit_score" json:"meritScore"`
	Explanation    string                      `gorm:"column:explanation;type:text" json:"explanation"`
	CreatedAt      time.Time                   `gorm:"column:created_at;not null;index" json:"createdAt"`
}

func (EvidenceAnalysis) TableName() string { return "extracted_text" }
