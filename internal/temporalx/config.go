package temporalx

import (
	"time"

	"github.com/justicebot/justicebot-backend/internal/platform/envutil"
)

type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string

	DialTimeout       time.Duration
	DialMaxWait       time.Duration
	AutoRegister      bool
	RetentionDays     int
	WorkerConcurrency int
}

func LoadConfig() Config {
	return Config{
		Address:   envutil.String("TEMPORAL_ADDRESS", ""),
		Namespace: envutil.String("TEMPORAL_NAMESPACE", "justicebot"),
		TaskQueue: envutil.String("TEMPORAL_TASK_QUEUE", "justicebot-evidence"),

		ClientCertPath: envutil.String("TEMPORAL_CLIENT_CERT_PATH", ""),
		ClientKeyPath:  envutil.String("TEMPORAL_CLIENT_KEY_PATH", ""),
		ClientCAPath:   envutil.String("TEMPORAL_CLIENT_CA_PATH", ""),

		DialTimeout:       envutil.Seconds("TEMPORAL_DIAL_TIMEOUT_SECONDS", 5*time.Second),
		DialMaxWait:       envutil.Seconds("TEMPORAL_DIAL_MAX_WAIT_SECONDS", 60*time.Second),
		AutoRegister:      envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false),
		RetentionDays:     envutil.Int("TEMPORAL_NAMESPACE_RETENTION_DAYS", 7),
		WorkerConcurrency: envutil.Int("WORKER_CONCURRENCY", 4),
	}
}

func (c Config) Enabled() bool { return c.Address != "" }

func (c Config) mTLS() bool {
	return c.ClientCertPath != "" || c.ClientKeyPath != "" || c.ClientCAPath != ""
}

// Backoff doubles base per attempt, capped at max.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	sleep := base
	for i := 1; i < attempt; i++ {
		sleep *= 2
		if max > 0 && sleep >= max {
			return max
		}
	}
	if max > 0 && sleep > max {
		return max
	}
	return sleep
}
