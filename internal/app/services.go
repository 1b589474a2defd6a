package app

import (
	"fmt"

	"github.com/justicebot/justicebot-backend/internal/evidence"
	"github.com/justicebot/justicebot-backend/internal/flows"
	"github.com/justicebot/justicebot-backend/internal/forms"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
	"github.com/justicebot/justicebot-backend/internal/temporalx/evidenceflow"
)

type Services struct {
	Flows   *flows.Runner
	Catalog *forms.Catalog

	// Nil unless this process runs the pipeline.
	Pipeline *evidence.Pipeline
	Notifier *evidence.Notifier
	Consumer *evidence.Consumer

	Submitter evidence.Submitter
}

func wireServices(log *logger.Logger, cfg Config, role Role, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")
	catalog, err := forms.Default()
	if err != nil {
		return Services{}, fmt.Errorf("load forms catalog: %w", err)
	}
	s := Services{Catalog: catalog}
	if clients.LLM != nil {
		s.Flows = flows.NewRunner(log, clients.LLM)
	}

	if clients.Vision != nil && clients.Document != nil && s.Flows != nil {
		extractor := evidence.NewExtractor(log, clients.Bucket, clients.Vision, clients.Document)
		s.Pipeline = evidence.NewPipeline(log, extractor, s.Flows, reposet.EvidenceAnalysis, catalog, clients.Bucket.BucketName())
		s.Notifier = evidence.NewNotifier(log, reposet.DeviceToken, clients.Messaging)
	}

	switch cfg.DispatchMode {
	case DispatchInline:
		if s.Pipeline == nil {
			return Services{}, fmt.Errorf("inline dispatch requires the evidence pipeline")
		}
		s.Submitter = evidence.NewInlineSubmitter(log, s.Pipeline, s.Notifier)
	case DispatchMemory, DispatchRedis:
		s.Submitter = evidence.NewBusSubmitter(clients.Bus)
		consume := cfg.DispatchMode == DispatchMemory || role == RoleWorker || cfg.ConsumeInAPI
		if consume && s.Pipeline != nil {
			s.Consumer = evidence.NewConsumer(log, clients.Bus, s.Pipeline, s.Notifier, cfg.EventWorkers)
		}
	case DispatchTemporal:
		s.Submitter = evidenceflow.NewSubmitter(clients.Temporal, cfg.Temporal.TaskQueue)
	}
	return s, nil
}
