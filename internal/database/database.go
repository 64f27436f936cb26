package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"salon_crm_backend/internal/config"
	"salon_crm_backend/pkg/utils"
)

//go:embed schema.sql
var defaultSchema string

// Open connects to Postgres using the DB_* settings and, when enabled, applies the schema.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"host": cfg.DBHost, "db": cfg.DBName})

	if cfg.DBAutoMigrate {
		if err := applySchema(ctx, db, cfg.DBSchemaPath); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// applySchema executes the schema file at schemaPath, or the built-in schema when empty.
func applySchema(ctx context.Context, db *sql.DB, schemaPath string) error {
	schema := defaultSchema
	if schemaPath != "" {
		content, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
		}
		schema = string(content)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"custom_path": schemaPath != ""})
	return nil
}
