package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/fieldmaskpb"

	"github.com/justicebot/justicebot-backend/internal/platform/ctxutil"
	"github.com/justicebot/justicebot-backend/internal/platform/envutil"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

// ErrOnlineLimit marks a PDF the synchronous endpoint will not take: too many bytes
// or pages. ExtractPDFTextGCS handles those.
var ErrOnlineLimit = errors.New("document exceeds online processing limits")

// DefaultOnlineMaxBytes is the request size the synchronous endpoint accepts.
const DefaultOnlineMaxBytes = 20 << 20

type Document interface {
	// ExtractPDFText runs the configured processor and returns the document's full text.
	ExtractPDFText(ctx context.Context, data []byte) (string, error)
	// ExtractPDFTextGCS batch-processes a PDF already in Cloud Storage and returns its
	// text with shards joined in order.
	ExtractPDFTextGCS(ctx context.Context, gcsURI string) (string, error)
	Close() error
}

type documentService struct {
	log       *logger.Logger
	docClient *documentai.DocumentProcessorClient
	storage   *storage.Client
	processor string

	onlineMaxBytes int
	// batchOutput is a gs:// prefix; empty means a docai-output/ prefix in the input bucket.
	batchOutput    string
	listRetry      int
	listRetryDelay time.Duration
}

func NewDocument(log *logger.Logger) (Document, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Document")
	ctx := context.Background()

	location := strings.TrimSpace(os.Getenv("DOCUMENTAI_LOCATION"))
	if location == "" {
		location = "us"
	}
	name := processorName(
		ProjectID(),
		location,
		os.Getenv("DOCUMENTAI_PROCESSOR_ID"),
		os.Getenv("DOCUMENTAI_PROCESSOR_VERSION"),
	)
	if name == "" {
		return nil, fmt.Errorf("missing GOOGLE_PROJECT_ID or DOCUMENTAI_PROCESSOR_ID")
	}

	// Document AI is regional; the endpoint must match the processor location.
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)
	opts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, ClientOptionsFromEnv()...)
	c, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}
	st, err := storage.NewClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("storage client: %w", err)
	}

	s := &documentService{
		log:            slog,
		docClient:      c,
		storage:        st,
		processor:      name,
		onlineMaxBytes: envutil.Int("DOCUMENTAI_ONLINE_MAX_BYTES", DefaultOnlineMaxBytes),
		batchOutput:    strings.TrimSpace(os.Getenv("DOCUMENTAI_BATCH_OUTPUT_URI")),
		listRetry:      12,
		listRetryDelay: 750 * time.Millisecond,
	}
	slog.Info("Document AI initialized", "endpoint", endpoint, "processor", name, "online_max_bytes", s.onlineMaxBytes)
	return s, nil
}

func (s *documentService) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.storage != nil {
		errs = append(errs, s.storage.Close())
	}
	if s.docClient != nil {
		errs = append(errs, s.docClient.Close())
	}
	return errors.Join(errs...)
}

func (s *documentService) ExtractPDFText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if s.onlineMaxBytes > 0 && len(data) > s.onlineMaxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrOnlineLimit, len(data))
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 3*time.Minute)
	defer cancel()

	resp, err := s.docClient.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: s.processor,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: "application/pdf",
			},
		},
		FieldMask: &fieldmaskpb.FieldMask{Paths: []string{"text"}},
	})
	if err != nil {
		return "", classifyOnlineError(err)
	}
	return resp.GetDocument().GetText(), nil
}

// classifyOnlineError wraps ErrOnlineLimit around the rejections the batch endpoint accepts.
func classifyOnlineError(err error) error {
	switch status.Code(err) {
	case codes.InvalidArgument, codes.ResourceExhausted:
		msg := strings.ToLower(status.Convert(err).Message())
		if strings.Contains(msg, "page") || strings.Contains(msg, "size") || strings.Contains(msg, "limit") {
			return fmt.Errorf("%w: %v", ErrOnlineLimit, err)
		}
	}
	return fmt.Errorf("documentai ProcessDocument: %w", err)
}

func (s *documentService) ExtractPDFTextGCS(ctx context.Context, gcsURI string) (string, error) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 30*time.Minute)
	defer cancel()

	inBucket, _, err := parseGCSURI(gcsURI)
	if err != nil {
		return "", err
	}
	outBase := s.batchOutput
	if outBase == "" {
		outBase = "gs://" + inBucket + "/docai-output/"
	}
	outBucket, outPrefix, err := parseGCSURI(outBase)
	if err != nil {
		return "", fmt.Errorf("DOCUMENTAI_BATCH_OUTPUT_URI: %w", err)
	}
	if outPrefix != "" && !strings.HasSuffix(outPrefix, "/") {
		outPrefix += "/"
	}
	outPrefix += uuid.NewString() + "/"

	op, err := s.docClient.BatchProcessDocuments(ctx, &documentaipb.BatchProcessRequest{
		Name: s.processor,
		InputDocuments: &documentaipb.BatchDocumentsInputConfig{
			Source: &documentaipb.BatchDocumentsInputConfig_GcsDocuments{
				GcsDocuments: &documentaipb.GcsDocuments{
					Documents: []*documentaipb.GcsDocument{{GcsUri: gcsURI, MimeType: "application/pdf"}},
				},
			},
		},
		DocumentOutputConfig: &documentaipb.DocumentOutputConfig{
			Destination: &documentaipb.DocumentOutputConfig_GcsOutputConfig_{
				GcsOutputConfig: &documentaipb.DocumentOutputConfig_GcsOutputConfig{
					GcsUri: fmt.Sprintf("gs://%s/%s", outBucket, outPrefix),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("documentai BatchProcessDocuments: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return "", fmt.Errorf("documentai batch wait: %w", err)
	}
	defer s.deletePrefix(context.WithoutCancel(ctx), outBucket, outPrefix)

	keys, err := s.listObjectsWithRetry(ctx, outBucket, outPrefix)
	if err != nil {
		return "", err
	}
	var shards []*documentaipb.Document
	for _, k := range keys {
		if !strings.HasSuffix(strings.ToLower(k), ".json") {
			continue
		}
		raw, err := s.readObject(ctx, outBucket, k)
		if err != nil {
			return "", fmt.Errorf("read batch output %s: %w", k, err)
		}
		doc := &documentaipb.Document{}
		if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(raw, doc); err != nil {
			return "", fmt.Errorf("decode batch output %s: %w", k, err)
		}
		shards = append(shards, doc)
	}
	s.log.Info("batch extraction finished", "input", gcsURI, "shards", len(shards), "operation", op.Name())
	return joinShardText(shards), nil
}

// joinShardText concatenates shard text in shard order.
func joinShardText(shards []*documentaipb.Document) string {
	sort.SliceStable(shards, func(i, j int) bool {
		return shards[i].GetShardInfo().GetShardIndex() < shards[j].GetShardInfo().GetShardIndex()
	})
	var b strings.Builder
	for _, d := range shards {
		b.WriteString(d.GetText())
	}
	return b.String()
}

// GCSURI formats a gs:// URI for an object.
func GCSURI(bucket, key string) string {
	return "gs://" + strings.TrimSpace(bucket) + "/" + strings.TrimLeft(key, "/")
}

func parseGCSURI(uri string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "gs://")
	if !ok {
		return "", "", fmt.Errorf("not a gs:// uri: %q", uri)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("gs:// uri has no bucket: %q", uri)
	}
	return bucket, prefix, nil
}

func processorName(project, location, processorID, version string) string {
	project = strings.TrimSpace(project)
	location = strings.TrimSpace(location)
	processorID = strings.TrimSpace(processorID)
	version = strings.TrimSpace(version)

	if project == "" || location == "" || processorID == "" {
		return ""
	}
	base := fmt.Sprintf("projects/%s/locations/%s/processors/%s", project, location, processorID)
	if version != "" {
		return base + "/processorVersions/" + version
	}
	return base
}

// Output objects can lag the operation's completion.
func (s *documentService) listObjectsWithRetry(ctx context.Context, bucket, prefix string) ([]string, error) {
	var lastErr error
	for attempt := 0; attempt < s.listRetry; attempt++ {
		keys, err := s.listObjects(ctx, bucket, prefix)
		if err == nil {
			if len(keys) > 0 {
				return keys, nil
			}
			lastErr = fmt.Errorf("no objects found yet under %s/%s", bucket, prefix)
		} else {
			lastErr = err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.listRetryDelay):
		}
	}
	return nil, lastErr
}

func (s *documentService) listObjects(ctx context.Context, bucket, prefix string) ([]string, error) {
	it := s.storage.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

func (s *documentService) readObject(ctx context.Context, bucket, key string) ([]byte, error) {
	rc, err := s.storage.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *documentService) deletePrefix(ctx context.Context, bucket, prefix string) {
	keys, err := s.listObjects(ctx, bucket, prefix)
	if err != nil {
		s.log.Warn("list batch output for cleanup failed", "prefix", prefix, "error", err)
		return
	}
	for _, k := range keys {
		if err := s.storage.Bucket(bucket).Object(k).Delete(ctx); err != nil {
			s.log.Warn("delete batch output failed", "object", k, "error", err)
		}
	}
}
