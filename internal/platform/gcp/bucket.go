package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

// ErrObjectTooLarge is returned by ReadObject when the object exceeds the configured limit.
var ErrObjectTooLarge = errors.New("object exceeds max size")

type BucketService interface {
	UploadFile(dbc dbctx.Context, key, contentType string, file io.Reader) error
	ReadObject(ctx context.Context, key string) ([]byte, error)
	BucketName() string
	Close() error
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucket        string
	maxBytes      int64
}

func NewBucketService(log *logger.Logger, maxBytes int64) (BucketService, error) {
	storageCfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve object storage config: %w", err)
	}
	serviceLog := log.With("service", "BucketService")

	bucketName := strings.TrimSpace(os.Getenv("EVIDENCE_GCS_BUCKET_NAME"))
	if bucketName == "" {
		return nil, fmt.Errorf("missing env var EVIDENCE_GCS_BUCKET_NAME")
	}

	stClient, err := newStorageClientForMode(context.Background(), storageCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog.Info(
		"Object storage initialized",
		"mode", storageCfg.Mode,
		"mode_inferred", storageCfg.Inferred,
		"emulator_host", storageCfg.EmulatorHost,
		"bucket", bucketName,
	)
	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		bucket:        bucketName,
		maxBytes:      maxBytes,
	}, nil
}

func newStorageClientForMode(ctx context.Context, storageCfg ObjectStorageConfig) (*storage.Client, error) {
	if storageCfg.IsEmulatorMode() {
		// the storage client only honours the emulator through this variable
		_ = os.Setenv("STORAGE_EMULATOR_HOST", storageCfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (bs *bucketService) BucketName() string { return bs.bucket }

func (bs *bucketService) UploadFile(dbc dbctx.Context, key, contentType string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(dbc.Ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if w.ContentType == "" {
		w.ContentType = ContentTypeForKey(key)
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	bs.log.Debug("uploaded object", "bucket", bs.bucket, "key", key, "content_type", w.ContentType)
	return nil
}

func (bs *bucketService) ReadObject(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	r, err := bs.storageClient.Bucket(bs.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object %q: %w", key, err)
	}
	defer r.Close()

	var src io.Reader = r
	if bs.maxBytes > 0 {
		if r.Attrs.Size > bs.maxBytes {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrObjectTooLarge, key, r.Attrs.Size)
		}
		src = io.LimitReader(r, bs.maxBytes+1)
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read GCS object %q: %w", key, err)
	}
	if bs.maxBytes > 0 && int64(len(b)) > bs.maxBytes {
		return nil, fmt.Errorf("%w: %s", ErrObjectTooLarge, key)
	}
	return b, nil
}

func (bs *bucketService) Close() error {
	if bs == nil || bs.storageClient == nil {
		return nil
	}
	return bs.storageClient.Close()
}

// ContentTypeForKey guesses a content type from the key's extension.
func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".tif"), strings.HasSuffix(s, ".tiff"):
		return "image/tiff"
	case strings.HasSuffix(s, ".heic"):
		return "image/heic"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(s, ".txt"):
		return "text/plain"
	default:
		return ""
	}
}
