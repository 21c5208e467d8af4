package store

import (
	"fmt"

	"github.com/mattelier/mattelier-backend/internal/platform/logger"
)

// Driver identifies a concrete slot store implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory only (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file (default)
	DriverPostgres Driver = "postgres" // PostgreSQL server
	DriverRedis    Driver = "redis"    // redis server
)

// Config selects and parameterizes a driver.
type Config struct {
	Driver      Driver
	SQLitePath  string
	PostgresDSN string
	RedisAddr   string
}

// Open builds the slot store named by cfg.Driver, defaulting to sqlite.
func Open(cfg Config, log *logger.Logger) (SlotStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return NewSQLiteStore(cfg.SQLitePath, log)
	case DriverPostgres:
		return NewPostgresStore(cfg.PostgresDSN, log)
	case DriverRedis:
		return NewRedisStore(cfg.RedisAddr, log)
	default:
		return nil, fmt.Errorf("unknown slot store driver %q", driver)
	}
}
