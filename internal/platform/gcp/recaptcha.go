package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	recaptcha "google.golang.org/api/recaptchaenterprise/v1"

	"github.com/justicebot/justicebot-backend/internal/platform/ctxutil"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

const DefaultRecaptchaThreshold = 0.5

type RecaptchaVerdict struct {
	IsValid bool    `json:"isValid"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
}

type Recaptcha interface {
	Verify(ctx context.Context, token, expectedAction string) (RecaptchaVerdict, error)
}

type recaptchaService struct {
	log       *logger.Logger
	svc       *recaptcha.Service
	parent    string
	siteKey   string
	threshold float64
}

func NewRecaptcha(log *logger.Logger, projectID, siteKey string, opts ...option.ClientOption) (Recaptcha, error) {
	projectID = strings.TrimSpace(projectID)
	siteKey = strings.TrimSpace(siteKey)
	if projectID == "" || siteKey == "" {
		return nil, fmt.Errorf("recaptcha: project id and site key required")
	}
	if len(opts) == 0 {
		opts = ClientOptionsFromEnv()
	}
	svc, err := recaptcha.NewService(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("recaptcha service: %w", err)
	}
	return &recaptchaService{
		log:       log.With("service", "gcp.Recaptcha"),
		svc:       svc,
		parent:    "projects/" + projectID,
		siteKey:   siteKey,
		threshold: DefaultRecaptchaThreshold,
	}, nil
}

// Verify creates an assessment for token. A token is valid when the assessment
// marks it valid, the action matches and the risk score reaches the threshold.
func (s *recaptchaService) Verify(ctx context.Context, token, expectedAction string) (RecaptchaVerdict, error) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 10*time.Second)
	defer cancel()

	assessment, err := s.svc.Projects.Assessments.Create(s.parent, &recaptcha.GoogleCloudRecaptchaenterpriseV1Assessment{
		Event: &recaptcha.GoogleCloudRecaptchaenterpriseV1Event{
			Token:          token,
			SiteKey:        s.siteKey,
			ExpectedAction: expectedAction,
		},
	}).Context(ctx).Do()
	if err != nil {
		return RecaptchaVerdict{}, fmt.Errorf("recaptcha assessment: %w", err)
	}
	return s.judge(assessment, expectedAction), nil
}

func (s *recaptchaService) judge(a *recaptcha.GoogleCloudRecaptchaenterpriseV1Assessment, expectedAction string) RecaptchaVerdict {
	tp := a.TokenProperties
	if tp == nil || !tp.Valid {
		reason := "invalid_token"
		if tp != nil && tp.InvalidReason != "" {
			reason = strings.ToLower(tp.InvalidReason)
		}
		return RecaptchaVerdict{Reason: reason}
	}
	var score float64
	if a.RiskAnalysis != nil {
		score = a.RiskAnalysis.Score
	}
	if expectedAction != "" && tp.Action != expectedAction {
		return RecaptchaVerdict{Score: score, Reason: "action_mismatch"}
	}
	if score < s.threshold {
		return RecaptchaVerdict{Score: score, Reason: "low_score"}
	}
	return RecaptchaVerdict{IsValid: true, Score: score}
}
