package app

import (
	"strings"

	"github.com/mattelier/mattelier-backend/internal/observability"
	"github.com/mattelier/mattelier-backend/internal/platform/envutil"
	"github.com/mattelier/mattelier-backend/internal/platform/logger"
	"github.com/mattelier/mattelier-backend/internal/store"
)

// Config gathers every process setting in one place. All values come from
// the environment with working local-development defaults, so a bare
// `go run ./cmd` starts a usable server.
type Config struct {
	HTTPAddr    string
	CORSOrigins []string

	Store store.Config

	// MirrorBaseURL enables the remote library mirror when non-empty.
	MirrorBaseURL string

	Telemetry observability.Config

	LogMode string
}

func LoadConfig(log *logger.Logger) Config {
	origins := splitCSV(envutil.String("CORS_ORIGINS", ""))
	return Config{
		HTTPAddr:    envutil.String("HTTP_ADDR", ":8080"),
		CORSOrigins: origins,
		Store: store.Config{
			Driver:      store.Driver(envutil.String("STORE_DRIVER", string(store.DriverSQLite))),
			SQLitePath:  envutil.String("SQLITE_PATH", "mattelier.db"),
			PostgresDSN: envutil.String("POSTGRES_DSN", ""),
			RedisAddr:   envutil.String("REDIS_ADDR", ""),
		},
		MirrorBaseURL: envutil.String("MIRROR_BASE_URL", ""),
		Telemetry: observability.Config{
			Enabled:      envutil.Bool("OTEL_ENABLED", false),
			ServiceName:  envutil.String("OTEL_SERVICE_NAME", "mattelier-backend"),
			Environment:  envutil.String("APP_ENV", "development"),
			Version:      envutil.String("APP_VERSION", "dev"),
			OTLPEndpoint: envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			OTLPInsecure: envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio:  1.0,
		},
		LogMode: envutil.String("LOG_MODE", "development"),
	}
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
