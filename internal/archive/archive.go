// Package archive persists generated content to MySQL for reporting. The
// archive sits off the serving path: writes are best-effort and the service
// runs fully without it.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/serendip-ai/serendipity/internal/config"
	"github.com/serendip-ai/serendipity/internal/content"
)

// Open opens a MySQL connection using the provided config.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true

	db, err := sqlx.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open database connection: %w", err)
	}
	return db, nil
}

const createTable = `
CREATE TABLE IF NOT EXISTS content_archive (
	id BIGINT NOT NULL AUTO_INCREMENT,
	kind VARCHAR(64) NOT NULL,
	language VARCHAR(64) NOT NULL,
	cache_key VARCHAR(255) NOT NULL DEFAULT '',
	body TEXT NOT NULL,
	metadata JSON,
	source VARCHAR(16) NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (id),
	KEY idx_kind_created_at (kind, created_at)
)`

// Archive implements content.Recorder on a MySQL table.
type Archive struct {
	db *sqlx.DB
}

var _ content.Recorder = (*Archive)(nil)

func New(db *sqlx.DB) *Archive {
	return &Archive{db: db}
}

// Migrate creates the archive table when it does not exist yet.
func (a *Archive) Migrate(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create content_archive table: %w", err)
	}
	return nil
}

// Entry is a single archived row.
type Entry struct {
	ID        int64     `db:"id"`
	Kind      string    `db:"kind"`
	Language  string    `db:"language"`
	CacheKey  string    `db:"cache_key"`
	Body      string    `db:"body"`
	Metadata  []byte    `db:"metadata"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
}

// DecodedMetadata returns the metadata column as a map. A missing or invalid
// column decodes to nil.
func (e Entry) DecodedMetadata() map[string]string {
	if len(e.Metadata) == 0 {
		return nil
	}
	var metadata map[string]string
	if err := json.Unmarshal(e.Metadata, &metadata); err != nil {
		return nil
	}
	return metadata
}

// Record stores a generation result.
func (a *Archive) Record(ctx context.Context, rec content.Record) error {
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}

	_, err = a.db.ExecContext(ctx,
		`INSERT INTO content_archive (kind, language, cache_key, body, metadata, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(rec.Kind), rec.Language, rec.CacheKey, rec.Body, metadata, string(rec.Source), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert content_archive row: %w", err)
	}
	return nil
}

// Recent returns the latest archived entries, newest first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	var entries []Entry
	err := a.db.SelectContext(ctx, &entries,
		`SELECT id, kind, language, cache_key, body, metadata, source, created_at
		 FROM content_archive ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent entries: %w", err)
	}
	return entries, nil
}

// AffirmationsForMonth returns archived daily affirmations within a month,
// oldest first, for report rendering.
func (a *Archive) AffirmationsForMonth(ctx context.Context, year int, month time.Month) ([]Entry, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var entries []Entry
	err := a.db.SelectContext(ctx, &entries,
		`SELECT id, kind, language, cache_key, body, metadata, source, created_at
		 FROM content_archive
		 WHERE kind = ? AND created_at >= ? AND created_at < ?
		 ORDER BY created_at ASC`,
		string(content.KindDailyAffirmation), start, end)
	if err != nil {
		return nil, fmt.Errorf("select affirmations for %d-%02d: %w", year, month, err)
	}
	return entries, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}
