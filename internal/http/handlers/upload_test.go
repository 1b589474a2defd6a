package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

func multipartBody(t *testing.T, field, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write: %v", err)
		}
	} else {
		_ = mw.WriteField("note", "no file here")
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func postUpload(t *testing.T, h *UploadHandler, uid, field, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	r := newEngine(uid)
	r.POST("/api/upload", h.Upload)
	body, ct := multipartBody(t, field, fileName, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadWritesUnderUserPrefix(t *testing.T) {
	bucket := &fakeBucket{}
	h := NewUploadHandler(logger.Nop(), bucket, 0)

	w := postUpload(t, h, "user123", "file", "notice.pdf", []byte("%PDF-1.4 body"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
	}
	decode(t, w, &resp)
	if resp.Message != "File uploaded successfully." {
		t.Fatalf("message=%q", resp.Message)
	}
	if bucket.key != "evidence/user123/notice.pdf" {
		t.Fatalf("key=%q", bucket.key)
	}
	if bucket.contentType != "application/pdf" {
		t.Fatalf("content type=%q", bucket.contentType)
	}
	if string(bucket.body) != "%PDF-1.4 body" {
		t.Fatalf("body=%q", bucket.body)
	}
}

func TestUploadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		bucket := &fakeBucket{}
		w := postUpload(t, NewUploadHandler(logger.Nop(), bucket, 0), "user123", "", "", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status=%d", w.Code)
		}
		if bucket.key != "" {
			t.Fatalf("nothing should be written, got %q", bucket.key)
		}
	})
	t.Run("too large", func(t *testing.T) {
		w := postUpload(t, NewUploadHandler(logger.Nop(), &fakeBucket{}, 4), "user123", "file", "big.pdf", []byte("0123456789"))
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("status=%d", w.Code)
		}
	})
	t.Run("storage failure", func(t *testing.T) {
		bucket := &fakeBucket{err: errors.New("gcs down")}
		w := postUpload(t, NewUploadHandler(logger.Nop(), bucket, 0), "user123", "file", "a.txt", []byte("x"))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status=%d", w.Code)
		}
	})
	t.Run("no user", func(t *testing.T) {
		w := postUpload(t, NewUploadHandler(logger.Nop(), &fakeBucket{}, 0), "", "file", "a.txt", []byte("x"))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status=%d", w.Code)
		}
	})
}
