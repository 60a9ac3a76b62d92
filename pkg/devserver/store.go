package devserver

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// timeLayout sorts lexically in time order as long as every value is UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS contact_messages (
	id           TEXT PRIMARY KEY,
	reference_id TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL,
	company      TEXT NOT NULL DEFAULT '',
	message      TEXT NOT NULL,
	inquiry_type TEXT NOT NULL,
	status       TEXT NOT NULL,
	created_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contact_messages_created_at ON contact_messages(created_at);
CREATE TABLE IF NOT EXISTS visits (
	id         TEXT PRIMARY KEY,
	page       TEXT NOT NULL,
	user_agent TEXT NOT NULL DEFAULT '',
	referrer   TEXT NOT NULL DEFAULT '',
	ip_address TEXT NOT NULL DEFAULT '',
	payload    TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visits_created_at ON visits(created_at);
`

// Message is a stored contact message.
type Message struct {
	ID          string    `json:"id"`
	ReferenceID string    `json:"reference_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Company     string    `json:"company,omitempty"`
	Message     string    `json:"message"`
	InquiryType string    `json:"inquiry_type"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// VisitRecord is a stored page visit. Payload is the raw JSON the client sent.
type VisitRecord struct {
	ID        string
	Page      string
	UserAgent string
	Referrer  string
	IPAddress string
	Payload   string
	Timestamp time.Time
}

// PageCount is the number of visits to one page.
type PageCount struct {
	Page  string `json:"page"`
	Count int    `json:"count"`
}

// VisitStats summarizes visits over a trailing window.
type VisitStats struct {
	TotalVisits int         `json:"total_visits"`
	PageVisits  []PageCount `json:"page_visits"`
	PeriodDays  int         `json:"period_days"`
}

// Store persists contact messages and visits in sqlite.
type Store struct {
	path string
	db   *sql.DB
}

// NewStore opens (creating if needed) the sqlite database at path and applies the schema.
func NewStore(path string) (store *Store, err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create database directory: %s", dir)
		return store, err
	}

	var db *sql.DB
	db, err = sql.Open("sqlite", path)
	if err != nil {
		err = errors.Wrapf(err, "failed to open database: %s", path)
		return store, err
	}

	// sqlite allows one writer at a time.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(schema)
	if err != nil {
		_ = db.Close()
		err = errors.Wrap(err, "failed to apply schema")
		return store, err
	}

	store = &Store{path: path, db: db}
	return store, err
}

// Close closes the database.
func (s *Store) Close() (err error) {
	err = s.db.Close()
	return err
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) (err error) {
	err = s.db.PingContext(ctx)
	if err != nil {
		err = errors.Wrap(err, "database ping failed")
	}
	return err
}

// SaveMessage inserts a contact message. Empty ID, status, and timestamp are filled in.
func (s *Store) SaveMessage(ctx context.Context, msg *Message) (err error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Status == "" {
		msg.Status = "new"
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	msg.Timestamp = msg.Timestamp.UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO contact_messages (id, reference_id, name, email, company, message, inquiry_type, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ReferenceID, msg.Name, msg.Email, msg.Company, msg.Message, msg.InquiryType, msg.Status,
		msg.Timestamp.Format(timeLayout),
	)
	if err != nil {
		err = errors.Wrap(err, "failed to save contact message")
		return err
	}

	return err
}

// ListMessages returns messages newest first.
func (s *Store) ListMessages(ctx context.Context, limit, skip int) (messages []Message, err error) {
	messages = make([]Message, 0)

	var rows *sql.Rows
	rows, err = s.db.QueryContext(ctx,
		`SELECT id, reference_id, name, email, company, message, inquiry_type, status, created_at
		 FROM contact_messages ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, skip,
	)
	if err != nil {
		err = errors.Wrap(err, "failed to query contact messages")
		return messages, err
	}
	defer rows.Close()

	for rows.Next() {
		var msg Message
		var created string
		err = rows.Scan(&msg.ID, &msg.ReferenceID, &msg.Name, &msg.Email, &msg.Company, &msg.Message,
			&msg.InquiryType, &msg.Status, &created)
		if err != nil {
			err = errors.Wrap(err, "failed to scan contact message")
			return messages, err
		}

		msg.Timestamp, err = time.Parse(timeLayout, created)
		if err != nil {
			err = errors.Wrapf(err, "bad timestamp on message %s", msg.ID)
			return messages, err
		}

		messages = append(messages, msg)
	}

	err = rows.Err()
	if err != nil {
		err = errors.Wrap(err, "failed to read contact messages")
	}

	return messages, err
}

// SaveVisit inserts a visit.
func (s *Store) SaveVisit(ctx context.Context, visit *VisitRecord) (err error) {
	if visit.ID == "" {
		visit.ID = uuid.NewString()
	}
	if visit.Timestamp.IsZero() {
		visit.Timestamp = time.Now()
	}
	visit.Timestamp = visit.Timestamp.UTC()
	if strings.TrimSpace(visit.Payload) == "" {
		visit.Payload = "{}"
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO visits (id, page, user_agent, referrer, ip_address, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		visit.ID, visit.Page, visit.UserAgent, visit.Referrer, visit.IPAddress, visit.Payload,
		visit.Timestamp.Format(timeLayout),
	)
	if err != nil {
		err = errors.Wrap(err, "failed to save visit")
		return err
	}

	return err
}

// Stats counts visits per page since now minus days, busiest page first.
func (s *Store) Stats(ctx context.Context, days int, now time.Time) (stats VisitStats, err error) {
	stats = VisitStats{PeriodDays: days, PageVisits: make([]PageCount, 0)}
	since := now.UTC().AddDate(0, 0, -days).Format(timeLayout)

	var rows *sql.Rows
	rows, err = s.db.QueryContext(ctx,
		`SELECT page, COUNT(*) AS visits FROM visits WHERE created_at >= ?
		 GROUP BY page ORDER BY visits DESC, page ASC LIMIT 100`,
		since,
	)
	if err != nil {
		err = errors.Wrap(err, "failed to query visit stats")
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var pc PageCount
		err = rows.Scan(&pc.Page, &pc.Count)
		if err != nil {
			err = errors.Wrap(err, "failed to scan visit stats")
			return stats, err
		}
		stats.TotalVisits += pc.Count
		stats.PageVisits = append(stats.PageVisits, pc)
	}

	err = rows.Err()
	if err != nil {
		err = errors.Wrap(err, "failed to read visit stats")
	}

	return stats, err
}
