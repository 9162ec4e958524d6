package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db          *gorm.DB
	projectRepo *ProjectRepo
	toolRepo    *ToolRepo
}

// Config describes how to reach the primary and optional read replica
type Config struct {
	DSN        string
	ReplicaDSN string
	Retry      RetryPolicy
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB, retry RetryPolicy) Database {
	return Database{
		db:          db,
		projectRepo: NewProjectRepo(db, retry),
		toolRepo:    NewToolRepo(db, retry),
	}
}

// gormWriter routes gorm's logger through zerolog
type gormWriter struct {
	logger zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn().Msgf(format, args...)
}

func newGormLogger() logger.Interface {
	return logger.New(
		gormWriter{logger: log.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Open connects to Postgres, registers the read replica when one is
// configured and verifies the connection.
func Open(cfg Config) (Database, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newGormLogger(),
	})
	if err != nil {
		return Database{}, fmt.Errorf("connect to database: %w", err)
	}

	if cfg.ReplicaDSN != "" {
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  cfg.ReplicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		})
		if err := db.Use(resolver); err != nil {
			return Database{}, fmt.Errorf("register read replica: %w", err)
		}
		log.Info().Msg("read replica registered")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return Database{}, fmt.Errorf("test database connection: %w", err)
	}

	return New(db, cfg.Retry), nil
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ToolRepo() *ToolRepo {
	return d.toolRepo
}

// DB exposes the connection for migrations and code generation
func (d Database) DB() *gorm.DB {
	return d.db
}

// Ping checks that the primary is reachable
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
