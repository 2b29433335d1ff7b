package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	apperrors "github.com/jar-analysis/pkg/errors"
	"github.com/jar-analysis/pkg/telemetry"
)

// DBConfig holds database configuration.
type DBConfig struct {
	Type     string `mapstructure:"type"` // sqlite, postgres or mysql
	Path     string `mapstructure:"path"` // sqlite file, or ":memory:"
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// DBType represents the database type.
type DBType string

const (
	DBTypeSQLite   DBType = "sqlite"
	DBTypePostgres DBType = "postgres"
	DBTypeMySQL    DBType = "mysql"
)

// NewGormDB creates a new GORM database connection based on configuration.
func NewGormDB(cfg *DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	embedded := false

	switch DBType(cfg.Type) {
	case DBTypeSQLite, DBType("sqlite3"), DBType(""):
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to create database directory", err)
			}
		}
		dialector = sqlite.Open(path)
		embedded = true
	case DBTypePostgres, DBType("postgresql"):
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database,
		)
		dialector = postgres.Open(dsn)
	case DBTypeMySQL:
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		)
		dialector = mysql.Open(dsn)
	default:
		return nil, apperrors.Newf(apperrors.CodeConfigError, "unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to open database", err)
	}

	if telemetry.Enabled() {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, fmt.Errorf("failed to enable telemetry: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	// sqlite serializes writers, and ":memory:" is private to one connection.
	if embedded {
		maxConns = 1
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to ping database", err)
	}

	return db, nil
}

// Repositories holds all repository instances.
type Repositories struct {
	Reports ReportRepository
	gormDB  *gorm.DB
}

// NewRepositories migrates the schema and creates the repositories.
func NewRepositories(gormDB *gorm.DB) (*Repositories, error) {
	if err := gormDB.AutoMigrate(&ArchiveReportRecord{}); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to migrate schema", err)
	}

	return &Repositories{
		Reports: NewGormReportRepository(gormDB),
		gormDB:  gormDB,
	}, nil
}

// Open connects using cfg and creates the repositories.
func Open(cfg *DBConfig) (*Repositories, error) {
	db, err := NewGormDB(cfg)
	if err != nil {
		return nil, err
	}

	repos, err := NewRepositories(db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return repos, nil
}

// Close closes the database connection.
func (r *Repositories) Close() error {
	if r.gormDB != nil {
		sqlDB, err := r.gormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// HealthCheck verifies the database connection is still alive.
func (r *Repositories) HealthCheck(ctx context.Context) error {
	sqlDB, err := r.gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// DB returns the underlying sql.DB connection.
func (r *Repositories) DB() *sql.DB {
	sqlDB, _ := r.gormDB.DB()
	return sqlDB
}

// GormDB returns the underlying GORM DB instance.
func (r *Repositories) GormDB() *gorm.DB {
	return r.gormDB
}
