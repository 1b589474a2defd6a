package evidence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	types "github.com/justicebot/justicebot-backend/internal/domain"
	"github.com/justicebot/justicebot-backend/internal/flows"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type TextExtractor interface {
	Extract(ctx context.Context, name, contentType string) string
}

// Analyzer is the subset of flows the pipeline runs; *flows.Runner implements it.
type Analyzer interface {
	ClassifyDocument(ctx context.Context, in flows.ClassifyDocumentInput) (flows.ClassifyDocumentOutput, error)
	SuggestLegalForms(ctx context.Context, in flows.SuggestLegalFormsInput) (flows.SuggestLegalFormsOutput, error)
	AssessDisputeMerit(ctx context.Context, in flows.AssessDisputeMeritInput) (flows.AssessDisputeMeritOutput, error)
}

type AnalysisStore interface {
	Upsert(dbc dbctx.Context, row *types.EvidenceAnalysis) (created bool, err error)
}

// Labeler supplies a keyword label when the classifier returns unusable output.
type Labeler interface {
	Match(text string) string
}

type Status string

const (
	StatusSkipped Status = "skipped"
	StatusNoText  Status = "no_text"
	StatusStored  Status = "stored"
)

type Outcome struct {
	Status  Status
	Reason  string
	Ref     ObjectRef
	Record  *types.EvidenceAnalysis
	Created bool
}

// CreatedEvent reports the notification to send, if the write created a new record.
func (o Outcome) CreatedEvent() (AnalysisCreated, bool) {
	if o.Status != StatusStored || !o.Created || o.Record == nil {
		return AnalysisCreated{}, false
	}
	return AnalysisCreated{DocumentID: o.Record.DocumentID, OwnerUserID: o.Record.OwnerUserID}, true
}

type Pipeline struct {
	log      *logger.Logger
	extract  TextExtractor
	analyzer Analyzer
	store    AnalysisStore
	labeler  Labeler
	bucket   string
	now      func() time.Time
}

// NewPipeline builds a pipeline for objects in bucket. Events naming another bucket are
// skipped; an empty bucket accepts every event.
func NewPipeline(baseLog *logger.Logger, extract TextExtractor, analyzer Analyzer, store AnalysisStore, labeler Labeler, bucket string) *Pipeline {
	return &Pipeline{
		log:      baseLog.With("service", "EvidencePipeline"),
		extract:  extract,
		analyzer: analyzer,
		store:    store,
		labeler:  labeler,
		bucket:   strings.TrimSpace(bucket),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Process runs extract, classify, suggest, assess and write for one finalized object.
// Objects outside evidence/ and objects without text are not errors. Model and store
// failures abort the invocation before anything is written.
func (p *Pipeline) Process(ctx context.Context, ev ObjectFinalized) (Outcome, error) {
	if b := strings.TrimSpace(ev.Bucket); b != "" && p.bucket != "" && b != p.bucket {
		p.log.Debug("ignoring object from another bucket", "object", ev.Name, "bucket", b)
		return Outcome{Status: StatusSkipped, Reason: "bucket " + b + " is not the evidence bucket"}, nil
	}
	ref, err := ParseEvidencePath(ev.Name)
	if err != nil {
		p.log.Debug("ignoring object", "object", ev.Name, "reason", err)
		return Outcome{Status: StatusSkipped, Reason: err.Error()}, nil
	}
	log := p.log.With("object", ref.Name, "document_id", ref.DocumentID, "owner_user_id", ref.OwnerUserID)

	text := p.extract.Extract(ctx, ref.Name, ev.ContentType)
	if text == "" {
		log.Info("no text extracted; nothing to analyze")
		return Outcome{Status: StatusNoText, Ref: ref}, nil
	}

	classification, err := p.classify(ctx, log, text)
	if err != nil {
		return Outcome{Ref: ref}, err
	}

	suggested, err := p.analyzer.SuggestLegalForms(ctx, flows.SuggestLegalFormsInput{
		Classification: classification,
		Text:           text,
	})
	if err != nil {
		log.Warn("form suggestion failed", "error", err)
		return Outcome{Ref: ref}, fmt.Errorf("suggest forms: %w", err)
	}

	merit, err := p.analyzer.AssessDisputeMerit(ctx, flows.AssessDisputeMeritInput{
		CaseName:       ref.DocumentID,
		DisputeDetails: "Evidence classified as " + classification,
		EvidenceText:   text,
	})
	if err != nil {
		log.Warn("merit assessment failed", "error", err)
		return Outcome{Ref: ref}, fmt.Errorf("assess merit: %w", err)
	}

	row := &types.EvidenceAnalysis{
		DocumentID:     ref.DocumentID,
		OwnerUserID:    ref.OwnerUserID,
		ObjectName:     ref.Name,
		ContentType:    normalizeContentType(ev.ContentType),
		ExtractedText:  text,
		Classification: classification,
		SuggestedForms: datatypes.JSONSlice[string](suggested.SuggestedForms),
		MeritScore:     merit.Score(),
		Explanation:    merit.Analysis,
		CreatedAt:      p.now(),
	}
	created, err := p.store.Upsert(dbctx.Of(ctx), row)
	if err != nil {
		log.Error("write analysis failed", "error", err)
		return Outcome{Ref: ref}, fmt.Errorf("write analysis: %w", err)
	}
	log.Info("analysis stored", "classification", classification, "merit_score", row.MeritScore, "created", created)
	return Outcome{Status: StatusStored, Ref: ref, Record: row, Created: created}, nil
}

func (p *Pipeline) classify(ctx context.Context, log *logger.Logger, text string) (string, error) {
	out, err := p.analyzer.ClassifyDocument(ctx, flows.ClassifyDocumentInput{Text: text})
	if err == nil {
		return out.Classification, nil
	}
	var merr *flows.MalformedResponseError
	if errors.As(err, &merr) && p.labeler != nil {
		label := p.labeler.Match(text)
		log.Warn("classifier output unusable; using keyword label", "label", label, "error", err)
		return label, nil
	}
	log.Warn("classification failed", "error", err)
	return "", fmt.Errorf("classify: %w", err)
}
