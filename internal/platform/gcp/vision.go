package gcp

import (
	"context"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/justicebot/justicebot-backend/internal/platform/ctxutil"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type Vision interface {
	// OCRImageBytes returns the full-text annotation, or "" when none was found.
	OCRImageBytes(ctx context.Context, img []byte) (string, error)
	Close() error
}

type visionService struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient
}

func NewVision(log *logger.Logger) (Vision, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Vision")
	c, err := vision.NewImageAnnotatorClient(context.Background(), ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	slog.Info("Vision initialized")
	return &visionService{log: slog, client: c}, nil
}

func (s *visionService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *visionService) OCRImageBytes(ctx context.Context, img []byte) (string, error) {
	if len(img) == 0 {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), time.Minute)
	defer cancel()

	resp, err := s.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: img},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_TEXT_DETECTION}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.GetResponses()) == 0 {
		return "", nil
	}
	r := resp.GetResponses()[0]
	if st := r.GetError(); st != nil && st.GetCode() != 0 {
		return "", fmt.Errorf("vision text detection: code=%d %s", st.GetCode(), st.GetMessage())
	}
	return r.GetFullTextAnnotation().GetText(), nil
}
