package evidence

import (
	"context"
	"errors"
	"strings"

	"github.com/justicebot/justicebot-backend/internal/platform/gcp"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type ObjectReader interface {
	ReadObject(ctx context.Context, key string) ([]byte, error)
	BucketName() string
}

type ImageOCR interface {
	OCRImageBytes(ctx context.Context, img []byte) (string, error)
}

type PDFText interface {
	ExtractPDFText(ctx context.Context, data []byte) (string, error)
	ExtractPDFTextGCS(ctx context.Context, gcsURI string) (string, error)
}

type Extractor struct {
	log     *logger.Logger
	objects ObjectReader
	ocr     ImageOCR
	pdf     PDFText
}

func NewExtractor(baseLog *logger.Logger, objects ObjectReader, ocr ImageOCR, pdf PDFText) *Extractor {
	return &Extractor{
		log:     baseLog.With("service", "EvidenceExtractor"),
		objects: objects,
		ocr:     ocr,
		pdf:     pdf,
	}
}

type extractKind int

const (
	kindUnsupported extractKind = iota
	kindImage
	kindPDF
)

func kindOf(contentType string) extractKind {
	switch ct := normalizeContentType(contentType); {
	case strings.HasPrefix(ct, "image/"):
		return kindImage
	case ct == "application/pdf":
		return kindPDF
	default:
		return kindUnsupported
	}
}

// Extract returns the trimmed document text of an image or PDF object. PDFs the online
// processor rejects for size or page count go through batch processing from the bucket.
// Unsupported types and every download or extraction failure yield "".
func (e *Extractor) Extract(ctx context.Context, name, contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		contentType = gcp.ContentTypeForKey(name)
	}
	kind := kindOf(contentType)
	if kind == kindUnsupported {
		e.log.Info("unsupported content type; skipping extraction", "object", name, "content_type", contentType)
		return ""
	}

	data, err := e.objects.ReadObject(ctx, name)
	if kind == kindPDF && errors.Is(err, gcp.ErrObjectTooLarge) {
		return e.extractPDFBatch(ctx, name)
	}
	if err != nil {
		e.log.Warn("download failed", "object", name, "error", err)
		return ""
	}

	var text string
	switch kind {
	case kindImage:
		text, err = e.ocr.OCRImageBytes(ctx, data)
	case kindPDF:
		text, err = e.pdf.ExtractPDFText(ctx, data)
		if errors.Is(err, gcp.ErrOnlineLimit) {
			e.log.Info("pdf over online limits; using batch processing", "object", name, "bytes", len(data))
			return e.extractPDFBatch(ctx, name)
		}
	}
	if err != nil {
		e.log.Warn("text extraction failed", "object", name, "content_type", contentType, "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func (e *Extractor) extractPDFBatch(ctx context.Context, name string) string {
	text, err := e.pdf.ExtractPDFTextGCS(ctx, gcp.GCSURI(e.objects.BucketName(), name))
	if err != nil {
		e.log.Warn("batch pdf extraction failed", "object", name, "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}
