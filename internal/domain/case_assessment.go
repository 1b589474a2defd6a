package domain

import (
	"time"

	"github.com/google/uuid"
)

type CaseAssessment struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID             string    `gorm:"column:user_id;type:text;not null;index:idx_cases_user_created,priority:1" json:"userId"`
	CaseName           string    `gorm:"column:case_name;type:text" json:"caseName"`
	MeritScore         float64   `gorm:"column:merit_score" json:"meritScore"`
	CaseClassification string    `gorm:"column:case_classification;type:text" json:"caseClassification"`
	SuggestedAvenues   string    `gorm:"column:suggested_avenues;type:text" json:"suggestedAvenues"`
	Analysis           string    `gorm:"column:analysis;type:text" json:"analysis"`
	CreatedAt          time.Time `gorm:"column:created_at;not null;index:idx_cases_user_created,priority:2" json:"createdAt"`
}

func (CaseAssessment) TableName() string { return "cases" }
