package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/justicebot/justicebot-backend/internal/platform/envutil"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

// Open connects using DB_DRIVER (postgres by default, or sqlite).
func Open(log *logger.Logger) (*gorm.DB, error) {
	driver := strings.ToLower(envutil.String("DB_DRIVER", "postgres"))
	switch driver {
	case "postgres", "postgresql", "pg":
		svc, err := NewPostgresService(log)
		if err != nil {
			return nil, err
		}
		return svc.DB(), nil
	case "sqlite", "sqlite3":
		path := envutil.String("SQLITE_PATH", "justicebot.db")
		log.Info("opening sqlite database", "path", path)
		return OpenSQLite(path, false)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}
