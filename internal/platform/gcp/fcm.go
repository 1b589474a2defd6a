package gcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	fcm "google.golang.org/api/fcm/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/justicebot/justicebot-backend/internal/platform/ctxutil"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

type PushResult struct {
	Sent   int
	Failed int
	// Invalid lists tokens FCM reported as unregistered; callers should prune them.
	Invalid []string
}

type Messaging interface {
	Send(ctx context.Context, tokens []string, msg PushMessage) (PushResult, error)
}

type fcmService struct {
	log         *logger.Logger
	svc         *fcm.Service
	parent      string
	concurrency int
}

func NewMessaging(log *logger.Logger, projectID string, opts ...option.ClientOption) (Messaging, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, fmt.Errorf("fcm: project id required")
	}
	slog := log.With("service", "gcp.Messaging")
	if len(opts) == 0 {
		opts = append(ClientOptionsFromEnv(), option.WithScopes(fcm.CloudPlatformScope))
	}
	svc, err := fcm.NewService(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("fcm service: %w", err)
	}
	return &fcmService{
		log:         slog,
		svc:         svc,
		parent:      "projects/" + projectID,
		concurrency: 8,
	}, nil
}

// Send delivers msg to every token. FCM v1 has no multicast endpoint, so the
// tokens fan out as individual requests; per-token failures are counted, not returned.
func (s *fcmService) Send(ctx context.Context, tokens []string, msg PushMessage) (PushResult, error) {
	ctx = ctxutil.Default(ctx)
	var (
		mu  sync.Mutex
		res PushResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, tok := range tokens {
		tok := strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		g.Go(func() error {
			req := &fcm.SendMessageRequest{Message: &fcm.Message{
				Token: tok,
				Notification: &fcm.Notification{
					Title: msg.Title,
					Body:  msg.Body,
				},
				Data: msg.Data,
			}}
			_, err := s.svc.Projects.Messages.Send(s.parent, req).Context(gctx).Do()
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				res.Sent++
			case isUnregistered(err):
				res.Failed++
				res.Invalid = append(res.Invalid, tok)
			default:
				res.Failed++
				s.log.Warn("fcm send failed", "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	if res.Sent == 0 && res.Failed > 0 && len(res.Invalid) < res.Failed {
		return res, fmt.Errorf("fcm: all %d sends failed", res.Failed)
	}
	return res, nil
}

func isUnregistered(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code == http.StatusNotFound {
		return true
	}
	body := gerr.Body + " " + gerr.Message
	return strings.Contains(body, "UNREGISTERED") ||
		(gerr.Code == http.StatusBadRequest && strings.Contains(body, "registration token"))
}
