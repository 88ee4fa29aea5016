// Package store keeps privacy-conscious site analytics in SQLite: page
// visits and event modal views. IP addresses are never stored; only a
// salted, truncated hash is.
package store

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite

	"github.com/yu-ki/portfolio/internal/catalog"
)

var ErrNotFound = errors.New("not found")

// Visitor is one recorded page visit.
type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// EventStat counts modal opens of one event.
type EventStat struct {
	Name   string         `json:"name"`
	Status catalog.Status `json:"status"`
	Views  int64          `json:"views"`
	Unique int64          `json:"unique"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64       `json:"total_visitors"`
	UniqueVisitors   int64       `json:"unique_visitors"`
	VisitorsToday    int64       `json:"visitors_today"`
	VisitorsThisWeek int64       `json:"visitors_this_week"`
	TotalEventViews  int64       `json:"total_event_views"`
	TopEvents        []EventStat `json:"top_events"`
	RecentVisitors   []Visitor   `json:"recent_visitors"`
}

// Store wraps the analytics database.
type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Open opens (and if needed creates) the database at path. salt is mixed
// into IP hashes; an empty salt gets a random one, so hashes are only
// stable for the life of the process.
func Open(path, salt string) (*Store, error) {
	// WAL + busy timeout to avoid "database is locked" from the background
	// tracking goroutines.
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	if salt == "" {
		salt, err = NewSalt()
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{db: db, salt: salt, now: time.Now}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS visitors (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip  TEXT    NOT NULL,
		user_agent TEXT,
		path       TEXT,
		ts         INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_visitors_ts ON visitors(ts);

	CREATE TABLE IF NOT EXISTS event_views (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		event_name TEXT    NOT NULL,
		status     TEXT    NOT NULL CHECK (status IN ('visited','wishlist')),
		hashed_ip  TEXT    NOT NULL,
		ts         INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_event_views_name ON event_views(event_name);
	`)
	if err != nil {
		return fmt.Errorf("failed to create database tables: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NewSalt returns 32 random bytes as hex.
func NewSalt() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashIP hashes an address with the store's salt. The result is consistent
// per address for the life of the salt.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RecordVisit stores a page visit.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, ts) VALUES (?, ?, ?, ?)`,
		s.HashIP(ip), userAgent, path, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record visit: %w", err)
	}
	return nil
}

// RecordEventView stores an event modal open.
func (s *Store) RecordEventView(ctx context.Context, rec catalog.TaggedRecord, ip string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event_views (event_name, status, hashed_ip, ts) VALUES (?, ?, ?, ?)`,
		rec.Name, string(rec.Status), s.HashIP(ip), s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record event view: %w", err)
	}
	return nil
}

// Stats gathers the dashboard summary.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{today.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{weekAgo.Unix()}},
		{&stats.TotalEventViews, `SELECT COUNT(*) FROM event_views`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to load stats: %w", err)
		}
	}

	top, err := s.TopEvents(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.TopEvents = top

	recent, err := s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent

	return stats, nil
}

// TopEvents returns the most viewed events, most views first.
func (s *Store) TopEvents(ctx context.Context, limit int) ([]EventStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_name, status, COUNT(*) AS views, COUNT(DISTINCT hashed_ip)
		FROM event_views
		GROUP BY event_name, status
		ORDER BY views DESC, event_name ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top events: %w", err)
	}
	defer rows.Close()

	var out []EventStat
	for rows.Next() {
		var e EventStat
		var status string
		if err := rows.Scan(&e.Name, &status, &e.Views, &e.Unique); err != nil {
			return nil, fmt.Errorf("failed to scan event stat: %w", err)
		}
		e.Status = catalog.Status(status)
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecentVisitors returns the latest visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), ts
		FROM visitors
		ORDER BY ts DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load visitors: %w", err)
	}
	defer rows.Close()

	var out []Visitor
	for rows.Next() {
		var v Visitor
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}

// CleanupVisitors deletes visits and event views older than retention.
func (s *Store) CleanupVisitors(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention).Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM visitors WHERE ts < ?`, cutoff)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to clean up visitors: %w", err)
	}
	visitors, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM event_views WHERE ts < ?`, cutoff)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to clean up event views: %w", err)
	}
	views, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return visitors + views, nil
}

// DeleteEventViews removes every recorded view of an event.
func (s *Store) DeleteEventViews(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM event_views WHERE event_name = ?`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete event views: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return 0, fmt.Errorf("event %q: %w", name, ErrNotFound)
	}
	return n, nil
}
