package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"greencart-backend/internal/config"
	"greencart-backend/pkg/logger"
)

// PostgresDB manages the connection pool lifecycle.
type PostgresDB struct {
	Pool   *pgxpool.Pool
	config config.DatabaseConfig
}

func NewPostgresDB(cfg config.DatabaseConfig) *PostgresDB {
	return &PostgresDB{config: cfg}
}

func (db *PostgresDB) connectionString() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		db.config.User,
		db.config.Password,
		db.config.Host,
		db.config.Port,
		db.config.Database,
		db.config.SSLMode,
	)
}

// Connect establishes the pool with retry and verifies it with a ping.
func (db *PostgresDB) Connect(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(db.connectionString())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(db.config.MaxConns)
	poolConfig.MinConns = int32(db.config.MinConns)
	// Refresh connections periodically so stale ones get reclaimed.
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 10 * time.Second

	const maxRetries = 3
	var pool *pgxpool.Pool
	for attempt := 1; attempt <= maxRetries; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}

		if attempt < maxRetries {
			delay := time.Duration(attempt) * time.Second
			logger.Warn("database connection failed, retrying", map[string]interface{}{
				"attempt": attempt,
				"delay":   delay.String(),
				"error":   err.Error(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.Pool = pool
	return nil
}

// HealthCheck pings the pool with a short timeout.
func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
