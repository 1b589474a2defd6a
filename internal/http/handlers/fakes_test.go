package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/evidence"
	"github.com/justicebot/justicebot-backend/internal/platform/ctxutil"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/gcp"
	"github.com/justicebot/justicebot-backend/internal/platform/llm"
)

type fakeLLM struct {
	mu        sync.Mutex
	responses map[string]string
	last      map[string]llm.Request
}

func newFakeLLM(responses map[string]string) *fakeLLM {
	return &fakeLLM{responses: responses, last: map[string]llm.Request{}}
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, req llm.Request) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last[req.Flow] = req
	return []byte(f.responses[req.Flow]), nil
}

func (f *fakeLLM) Provider() string { return "fake" }

func (f *fakeLLM) lastRequest(flow string) (llm.Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.last[flow]
	return req, ok
}

type fakeBucket struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (b *fakeBucket) UploadFile(dbc dbctx.Context, key, contentType string, file io.Reader) error {
	if b.err != nil {
		return b.err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.key, b.contentType, b.body = key, contentType, data
	return nil
}

func (b *fakeBucket) ReadObject(ctx context.Context, key string) ([]byte, error) {
	return b.body, nil
}

func (b *fakeBucket) BucketName() string { return "test-bucket" }
func (b *fakeBucket) Close() error       { return nil }

type fakeRecaptcha struct {
	verdict gcp.RecaptchaVerdict
	err     error
}

func (f fakeRecaptcha) Verify(ctx context.Context, token, action string) (gcp.RecaptchaVerdict, error) {
	return f.verdict, f.err
}

type fakeSubmitter struct {
	mu  sync.Mutex
	got []evidence.ObjectFinalized
	err error
}

func (s *fakeSubmitter) Submit(ctx context.Context, ev evidence.ObjectFinalized) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.got = append(s.got, ev)
	return nil
}

// asUser stands in for the auth middleware.
func asUser(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid != "" {
			ctx := ctxutil.WithAuthData(c.Request.Context(), &ctxutil.AuthData{UID: uid})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func newEngine(uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser(uid))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}
