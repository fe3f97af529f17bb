// Package history records campaign verdicts in MySQL so that runs can be
// compared over time.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"dct/internal/config"
	"dct/internal/domain"
)

// Recorder stores the outcome of a campaign
type Recorder interface {
	Record(ctx context.Context, report domain.CampaignReport) error
}

// Settings holds the MySQL connection settings
type Settings struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// SettingsFromEnv reads DB_* variables (loaded from .env by the config layer)
func SettingsFromEnv() Settings {
	return Settings{
		Host:     envOrDefault("DB_HOST", "127.0.0.1"),
		Port:     envOrDefault("DB_PORT", "3306"),
		User:     envOrDefault("DB_USERNAME", "root"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: envOrDefault("DB_DATABASE", config.DefaultHistoryDatabase),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// DSN builds the driver connection string. An empty database connects to
// the server only.
func (s Settings) DSN(database string) string {
	cfg := mysql.NewConfig()
	cfg.User = s.User
	cfg.Passwd = s.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(s.Host, s.Port)
	cfg.DBName = database
	cfg.ParseTime = true
	cfg.Timeout = 5 * time.Second
	return cfg.FormatDSN()
}

// MySQLRecorder implements Recorder on a MySQL server
type MySQLRecorder struct {
	settings Settings
}

// NewMySQLRecorder creates a new MySQLRecorder
func NewMySQLRecorder(settings Settings) *MySQLRecorder {
	return &MySQLRecorder{settings: settings}
}

const createTable = "CREATE TABLE IF NOT EXISTS verdicts (" +
	"id BIGINT AUTO_INCREMENT PRIMARY KEY, " +
	"run_id CHAR(36) NOT NULL, " +
	"recorded_at DATETIME NOT NULL, " +
	"job VARCHAR(512) NOT NULL, " +
	"input VARCHAR(1024) NOT NULL, " +
	"status VARCHAR(8) NOT NULL, " +
	"reason VARCHAR(128) NOT NULL, " +
	"INDEX idx_run (run_id), " +
	"INDEX idx_job (job(191)))"

// Record creates the history database and table if needed, then inserts one
// row per verdict in a single transaction
func (r *MySQLRecorder) Record(ctx context.Context, report domain.CampaignReport) error {
	if err := r.ensureDatabase(ctx); err != nil {
		return err
	}

	db, err := sql.Open("mysql", r.settings.DSN(r.settings.Database))
	if err != nil {
		return fmt.Errorf("failed to connect to history database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create verdicts table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO verdicts (run_id, recorded_at, job, input, status, reason) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, v := range report.Verdicts {
		if _, err := stmt.ExecContext(ctx, report.Meta.RunID, now, v.Job, v.Input, string(v.Status), string(v.Reason)); err != nil {
			return fmt.Errorf("failed to record %s: %w", v.Job, err)
		}
	}
	return tx.Commit()
}

// ensureDatabase connects to the server and creates the history database
func (r *MySQLRecorder) ensureDatabase(ctx context.Context) error {
	if !isValidDatabaseName(r.settings.Database) {
		return fmt.Errorf("invalid database name: %s", r.settings.Database)
	}

	db, err := sql.Open("mysql", r.settings.DSN(""))
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}

	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", r.settings.Database)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create database %s: %w", r.settings.Database, err)
	}
	return nil
}

// isValidDatabaseName allows only identifiers made of letters, digits and underscores
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	return strings.IndexFunc(name, func(r rune) bool {
		return !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) < 0
}
