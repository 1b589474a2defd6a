package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justicebot/justicebot-backend/internal/platform/llm"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

const okBody = `{"output":[{"type":"message","role":"assistant","content":[{"type":"output_text","text":"{\"classification\":\"Eviction Notice\"}"}]}]}`

func newTestClient(t *testing.T, url string, temp *float64) *client {
	t.Helper()
	c, err := NewClient(logger.Nop(), Config{APIKey: "sk-test", BaseURL: url, Model: "m", MaxRetries: 2, Temperature: temp})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	cc := c.(*client)
	cc.baseBackoff = time.Millisecond
	return cc
}

func testRequest() llm.Request {
	return llm.Request{
		Flow:       "classify_document",
		System:     "Classify.",
		User:       "text",
		SchemaName: "classification",
		Schema:     map[string]any{"type": "object"},
	}
}

func TestGenerateJSONSendsSchemaAndParsesOutput(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("auth header=%q", got)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		format, _ := body["text"].(map[string]any)["format"].(map[string]any)
		if format["type"] != "json_schema" || format["name"] != "classification" || format["strict"] != true {
			t.Errorf("unexpected format %v", format)
		}
		_, _ = w.Write([]byte(okBody))
	}))
	defer ts.Close()

	out, err := newTestClient(t, ts.URL, nil).GenerateJSON(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if string(out) != `{"classification":"Eviction Notice"}` {
		t.Fatalf("out=%s", out)
	}
}

func TestGenerateJSONRetriesTransientFailures(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(okBody))
	}))
	defer ts.Close()

	if _, err := newTestClient(t, ts.URL, nil).GenerateJSON(context.Background(), testRequest()); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls=%d want=2", got)
	}
}

func TestGenerateJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := newTestClient(t, ts.URL, nil).GenerateJSON(context.Background(), testRequest())
	var he *openAIHTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls=%d want=1", got)
	}
}

func TestGenerateJSONDropsRejectedTemperature(t *testing.T) {
	var sawWithout int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["temperature"]; ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Unsupported parameter: 'temperature' is not supported with this model."}}`))
			return
		}
		atomic.StoreInt32(&sawWithout, 1)
		_, _ = w.Write([]byte(okBody))
	}))
	defer ts.Close()

	if _, err := newTestClient(t, ts.URL, llm.Float(0.3)).GenerateJSON(context.Background(), testRequest()); err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if atomic.LoadInt32(&sawWithout) != 1 {
		t.Fatalf("expected a retry without temperature")
	}
}

func TestGenerateJSONEmptyAndRefusal(t *testing.T) {
	cases := []struct {
		body string
		want error
	}{
		{`{"output":[]}`, llm.ErrEmptyOutput},
		{`{"output":[{"type":"message","content":[{"type":"refusal","refusal":"no"}]}]}`, llm.ErrRefused},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(tc.body))
		}))
		_, err := newTestClient(t, ts.URL, nil).GenerateJSON(context.Background(), testRequest())
		ts.Close()
		if !errors.Is(err, tc.want) {
			t.Fatalf("body %s: want %v, got %v", tc.body, tc.want, err)
		}
	}
}
