package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute

	pgUniqueViolation = "23505"
)

// Config captures the settings required to open the relational store.
type Config struct {
	URL     string
	Timeout time.Duration
	// Debug logs every SQL statement.
	Debug bool
}

// Connect opens the GORM handle, sizes the pool and verifies connectivity
// with a ping. A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	level := gormlogger.Warn
	if cfg.Debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: gormlogger.New(zerologWriter{log: log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema and seeds the fixed role and event
// type sets. Seeding is idempotent.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)

	if err := db.AutoMigrate(&roleRow{}, &eventTypeRow{}, &accountRow{}, &eventRow{}, &attendanceRow{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, name := range domain.SeedRoles {
		if err := db.Where(roleRow{Name: name}).FirstOrCreate(&roleRow{}).Error; err != nil {
			return fmt.Errorf("seed role %q: %w", name, err)
		}
	}
	for _, name := range domain.SeedEventTypes {
		if err := db.Where(eventTypeRow{Name: name}).FirstOrCreate(&eventTypeRow{}).Error; err != nil {
			return fmt.Errorf("seed event type %q: %w", name, err)
		}
	}
	return nil
}

// Ping checks the connection for readiness probes.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// parseID turns a path id into a UUID. Malformed ids cannot match any row,
// so they are reported as notFound instead of reaching the database.
func parseID(id string, notFound error) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, notFound
	}
	return parsed, nil
}

// uniqueViolation returns the index name of a unique constraint violation.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// zerologWriter adapts zerolog to gorm's logger.Writer.
type zerologWriter struct {
	log zerolog.Logger
}

func (w zerologWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Str("component", "gorm").Msgf(format, args...)
}
