// Package mysql implements the repositories on MySQL through database/sql
// and go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 5 * time.Second
	maxPingRetries = 10
)

// Config captures connection and pool settings.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN builds the driver connection string. FormatDSN escapes special
// characters in the password.
func (c Config) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Connect opens a pool and pings it, retrying with exponential backoff while
// the server is still starting.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	backoff := time.Second
	var pingErr error
	for attempt := 1; attempt <= maxPingRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		pingErr = db.PingContext(pingCtx)
		cancel()
		if pingErr == nil {
			return db, nil
		}
		if attempt == maxPingRetries || ctx.Err() != nil {
			break
		}

		log.Warn().Err(pingErr).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("mysql not ready, retrying")

		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 30*time.Second)
	}

	_ = db.Close()
	return nil, fmt.Errorf("mysql ping: %w", pingErr)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name    VARCHAR(100) NOT NULL,
		last_name     VARCHAR(100) NOT NULL,
		phone         VARCHAR(32)  NOT NULL DEFAULT '',
		role          ENUM('admin','therapist','client') NOT NULL DEFAULT 'client',
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at    DATETIME(3)  NOT NULL,
		updated_at    DATETIME(3)  NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS clients (
		id                      CHAR(36)     NOT NULL PRIMARY KEY,
		user_id                 CHAR(36)     NULL,
		email                   VARCHAR(255) NOT NULL,
		first_name              VARCHAR(100) NOT NULL DEFAULT '',
		last_name               VARCHAR(100) NOT NULL DEFAULT '',
		phone                   VARCHAR(32)  NOT NULL DEFAULT '',
		address                 VARCHAR(255) NOT NULL DEFAULT '',
		city                    VARCHAR(100) NOT NULL DEFAULT '',
		state                   VARCHAR(100) NOT NULL DEFAULT '',
		zip_code                VARCHAR(20)  NOT NULL DEFAULT '',
		date_of_birth           DATE         NULL,
		emergency_contact_name  VARCHAR(200) NOT NULL DEFAULT '',
		emergency_contact_phone VARCHAR(32)  NOT NULL DEFAULT '',
		notes                   TEXT         NULL,
		created_at              DATETIME(3)  NOT NULL,
		updated_at              DATETIME(3)  NOT NULL,
		UNIQUE KEY uq_clients_email (email),
		UNIQUE KEY uq_clients_user_id (user_id),
		KEY idx_clients_created_at (created_at),
		CONSTRAINT fk_clients_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS activity_events (
		id          CHAR(36)     NOT NULL PRIMARY KEY,
		type        VARCHAR(64)  NOT NULL,
		user_id     CHAR(36)     NULL,
		email       VARCHAR(255) NOT NULL DEFAULT '',
		remote_ip   VARCHAR(64)  NOT NULL DEFAULT '',
		metadata    JSON         NULL,
		occurred_at DATETIME(3)  NOT NULL,
		KEY idx_activity_user_time (user_id, occurred_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables when they do not exist yet. It is
// idempotent and safe to run on every start.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// duplicateKey returns the violated unique key name when err is a
// duplicate-entry error.
func duplicateKey(err error) (string, bool) {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return "", false
	}
	// Message format: Duplicate entry 'x' for key 'clients.uq_clients_user_id'
	msg := me.Message
	if i := strings.LastIndex(msg, "for key '"); i >= 0 {
		key := strings.TrimSuffix(msg[i+len("for key '"):], "'")
		if dot := strings.LastIndex(key, "."); dot >= 0 {
			key = key[dot+1:]
		}
		return key, true
	}
	return "", true
}

// searchClause builds a case-insensitive LIKE filter over columns.
func searchClause(search string, columns ...string) (string, []any) {
	if search == "" {
		return "", nil
	}
	pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		parts[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// offset converts a 1-based page to a row offset, saturating at MaxInt32.
func offset(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt32/limit {
		return math.MaxInt32
	}
	return (page - 1) * limit
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
