package store

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/mattelier/mattelier-backend/internal/platform/logger"
)

// Slot is one persisted collection: key plus the whole JSON value.
type Slot struct {
	Key       string         `gorm:"primaryKey"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (Slot) TableName() string { return "slots" }

// GormStore backs slots with sqlite (default) or postgres through gorm.
type GormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func newGormConfig() *gorm.Config {
	gormLog := gormLogger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	return &gorm.Config{Logger: gormLog}
}

func NewSQLiteStore(path string, log *logger.Logger) (*GormStore, error) {
	if path == "" {
		path = "mattelier.db"
	}
	db, err := gorm.Open(sqlite.Open(path), newGormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite slot store: %w", err)
	}
	return newGormStore(db, log)
}

func NewPostgresStore(dsn string, log *logger.Logger) (*GormStore, error) {
	if dsn == "" {
		return nil, errors.New("missing postgres DSN")
	}
	db, err := gorm.Open(postgres.Open(dsn), newGormConfig())
	if err != nil {
		return nil, fmt.Errorf("open postgres slot store: %w", err)
	}
	return newGormStore(db, log)
}

func newGormStore(db *gorm.DB, log *logger.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, fmt.Errorf("migrate slots table: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &GormStore{db: db, log: log.With("store", "GormStore")}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var slot Slot
	err := s.db.WithContext(ctx).First(&slot, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(slot.Value), true, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	slot := Slot{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&slot).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Slot{}, "key = ?", key).Error
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
