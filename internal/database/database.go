// Package database opens the gorm connection used for documents, blocks,
// captions and annotation snapshots.
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/killallgit/paperreel-api/internal/models"
	"github.com/killallgit/paperreel-api/pkg/config"
)

type DB struct {
	*gorm.DB
	log *zap.Logger
}

// Open connects to the database selected by cfg.Driver.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(cfg.Path)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	logLevel := logger.Error
	if cfg.LogQueries {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	maxOpen, maxIdle := cfg.MaxConnections, cfg.MaxIdleConnections
	if isMemory(cfg) {
		// Every sqlite connection to :memory: is a separate database.
		maxOpen, maxIdle = 1, 1
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		sqlDB.SetMaxIdleConns(maxIdle)
	}
	if cfg.ConnectionMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnectionMaxLifetime)
	}

	log.Debug("database connected", zap.String("driver", db.Dialector.Name()))
	return &DB{DB: db, log: log}, nil
}

// Initialize opens a sqlite database at dbPath.
func Initialize(dbPath string, verbose bool) (*DB, error) {
	return Open(config.DatabaseConfig{Driver: "sqlite", Path: dbPath, LogQueries: verbose}, nil)
}

func isMemory(cfg config.DatabaseConfig) bool {
	return (cfg.Driver == "" || cfg.Driver == "sqlite") && (cfg.Path == "" || cfg.Path == ":memory:")
}

func ensureDir(dbPath string) error {
	if dbPath == "" || dbPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is working
func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// AutoMigrate runs GORM auto migration for the provided models
func (db *DB) AutoMigrate(models ...any) error {
	if err := db.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	db.logger().Info("migrated models", zap.Int("count", len(models)))
	return nil
}

// Migrate creates or updates every table the service uses.
func (db *DB) Migrate() error {
	return db.AutoMigrate(models.AllModels()...)
}

// DropAll drops every table the service uses, in reverse creation order.
func (db *DB) DropAll() error {
	all := models.AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("drop table failed: %w", err)
		}
	}
	db.logger().Info("dropped tables", zap.Int("count", len(all)))
	return nil
}

// TableStatus reports whether a service table exists.
type TableStatus struct {
	Table  string
	Exists bool
}

// Status lists the service tables and whether each one exists.
func (db *DB) Status() ([]TableStatus, error) {
	all := models.AllModels()
	out := make([]TableStatus, 0, len(all))
	for _, m := range all {
		stmt := &gorm.Statement{DB: db.DB}
		if err := stmt.Parse(m); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
		out = append(out, TableStatus{
			Table:  stmt.Schema.Table,
			Exists: db.Migrator().HasTable(m),
		})
	}
	return out, nil
}

func (db *DB) logger() *zap.Logger {
	if db.log == nil {
		return zap.NewNop()
	}
	return db.log
}
