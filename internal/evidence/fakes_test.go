package evidence

import (
	"context"
	"errors"
	"sync"

	"github.com/justicebot/justicebot-backend/internal/flows/prompts"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/gcp"
	"github.com/justicebot/justicebot-backend/internal/platform/llm"

	types "github.com/justicebot/justicebot-backend/internal/domain"
)

type fakeObjects struct {
	mu    sync.Mutex
	data  map[string][]byte
	err   error
	reads []string
}

func (f *fakeObjects) ReadObject(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, key)
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.data[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return b, nil
}

func (f *fakeObjects) BucketName() string { return testBucket }

type fakeOCR struct {
	text  string
	err   error
	calls int
}

func (f *fakeOCR) OCRImageBytes(ctx context.Context, img []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

const testBucket = "justicebot-evidence"

type fakePDF struct {
	text      string
	err       error
	calls     int
	batchText string
	batchErr  error
	batchURIs []string
}

func (f *fakePDF) ExtractPDFText(ctx context.Context, data []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakePDF) ExtractPDFTextGCS(ctx context.Context, gcsURI string) (string, error) {
	f.batchURIs = append(f.batchURIs, gcsURI)
	return f.batchText, f.batchErr
}

// fakeLLM answers each flow with a canned JSON body.
type fakeLLM struct {
	mu        sync.Mutex
	responses map[string]string
	calls     []string
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{responses: map[string]string{
		string(prompts.PromptClassifyDocument):   `{"classification":"Eviction Notice"}`,
		string(prompts.PromptSuggestLegalForms):  `{"suggestedForms":["T2 - Application about Tenant Rights","N4 review"]}`,
		string(prompts.PromptAssessDisputeMerit): `{"meritScore":62,"caseClassification":"Landlord/Tenant","suggestedAvenues":"File a T2 with the LTB","analysis":"The notice period appears too short."}`,
	}}
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, req llm.Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req.Flow)
	return []byte(f.responses[req.Flow]), nil
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) count(flow prompts.PromptName) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == string(flow) {
			n++
		}
	}
	return n
}

func (f *fakeLLM) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type countingStore struct {
	inner  AnalysisStore
	mu     sync.Mutex
	writes int
}

func (s *countingStore) Upsert(dbc dbctx.Context, row *types.EvidenceAnalysis) (bool, error) {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return s.inner.Upsert(dbc, row)
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

type fakeTokens struct {
	mu      sync.Mutex
	tokens  map[string][]string
	deleted []string
}

func (f *fakeTokens) ListTokens(dbc dbctx.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tokens[userID]...), nil
}

func (f *fakeTokens) DeleteTokens(dbc dbctx.Context, userID string, tokens []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, tokens...)
	return int64(len(tokens)), nil
}

type fakePusher struct {
	mu      sync.Mutex
	calls   [][]string
	msgs    []gcp.PushMessage
	invalid []string
	err     error
	sent    chan struct{}
}

func (f *fakePusher) Send(ctx context.Context, tokens []string, msg gcp.PushMessage) (gcp.PushResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), tokens...))
	f.msgs = append(f.msgs, msg)
	f.mu.Unlock()
	if f.sent != nil {
		f.sent <- struct{}{}
	}
	return gcp.PushResult{Sent: len(tokens) - len(f.invalid), Failed: len(f.invalid), Invalid: f.invalid}, f.err
}

func (f *fakePusher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
