package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

const submissionColumns = `id, source, filename, storage_path, text_content, transcript, confidence,
	sound_type, tone, caption, status, phone_number, message_sid, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type sqliteStore struct {
	db *sql.DB
}

// NewSQLite returns a Store bound to an already migrated database handle.
func NewSQLite(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Create(ctx context.Context, sub models.Submission) (models.Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	sub = assignRecordIDs(sub)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Submission{}, fmt.Errorf("create submission: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO submissions (`+submissionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, string(sub.Source), sub.Filename, sub.StoragePath, sub.TextContent, sub.Transcript, sub.Confidence,
		string(sub.SoundType), string(sub.Tone), sub.Caption, string(sub.Status), sub.PhoneNumber, sub.MessageSID,
		formatTime(sub.CreatedAt), formatTime(sub.UpdatedAt),
	)
	if err != nil {
		return models.Submission{}, fmt.Errorf("create submission: insert: %w", err)
	}

	for _, p := range sub.Posts {
		if err := insertPost(ctx, tx, p); err != nil {
			return models.Submission{}, fmt.Errorf("create submission: %w", err)
		}
	}
	for _, n := range sub.Notifications {
		if err := insertNotification(ctx, tx, n); err != nil {
			return models.Submission{}, fmt.Errorf("create submission: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Submission{}, fmt.Errorf("create submission: commit: %w", err)
	}
	return sub, nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (models.Submission, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Submission{}, fmt.Errorf("get submission %s: %w", id, models.ErrNotFound)
		}
		return models.Submission{}, fmt.Errorf("get submission %s: %w", id, err)
	}
	if err := loadRecords(ctx, s.db, &sub); err != nil {
		return models.Submission{}, fmt.Errorf("get submission %s: %w", id, err)
	}
	return sub, nil
}

func (s *sqliteStore) Update(ctx context.Context, sub models.Submission) (models.Submission, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Submission{}, fmt.Errorf("update submission %s: begin: %w", sub.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE submissions
		SET transcript = ?, tone = ?, caption = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		sub.Transcript, string(sub.Tone), sub.Caption, string(sub.Status), formatTime(sub.UpdatedAt), sub.ID,
	)
	if err != nil {
		return models.Submission{}, fmt.Errorf("update submission %s: %w", sub.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Submission{}, fmt.Errorf("update submission %s: rows affected: %w", sub.ID, err)
	}
	if n == 0 {
		return models.Submission{}, fmt.Errorf("update submission %s: %w", sub.ID, models.ErrNotFound)
	}

	for _, p := range sub.Posts {
		if p.ID != "" {
			continue
		}
		p.ID = uuid.NewString()
		p.SubmissionID = sub.ID
		if err := insertPost(ctx, tx, p); err != nil {
			return models.Submission{}, fmt.Errorf("update submission %s: %w", sub.ID, err)
		}
	}
	for _, rec := range sub.Notifications {
		if rec.ID != "" {
			continue
		}
		rec.ID = uuid.NewString()
		rec.SubmissionID = sub.ID
		if err := insertNotification(ctx, tx, rec); err != nil {
			return models.Submission{}, fmt.Errorf("update submission %s: %w", sub.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Submission{}, fmt.Errorf("update submission %s: commit: %w", sub.ID, err)
	}
	return s.Get(ctx, sub.ID)
}

func (s *sqliteStore) List(ctx context.Context, f models.Filter) ([]models.Submission, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.Source != "" {
		where = append(where, "source = ?")
		args = append(args, string(f.Source))
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	var out []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("list submissions: scan: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	_ = rows.Close()

	// Records are loaded after the cursor is closed; the pool holds a single connection.
	for i := range out {
		if err := loadRecords(ctx, s.db, &out[i]); err != nil {
			return nil, fmt.Errorf("list submissions: %w", err)
		}
	}
	return out, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func scanSubmission(scanner rowScanner) (models.Submission, error) {
	var (
		sub                  models.Submission
		source, sound, tone  string
		status               string
		createdAt, updatedAt string
	)
	err := scanner.Scan(
		&sub.ID, &source, &sub.Filename, &sub.StoragePath, &sub.TextContent, &sub.Transcript, &sub.Confidence,
		&sound, &tone, &sub.Caption, &status, &sub.PhoneNumber, &sub.MessageSID, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Submission{}, err
	}
	sub.Source = models.Source(source)
	sub.SoundType = models.SoundType(sound)
	sub.Tone = models.Tone(tone)
	sub.Status = models.Status(status)
	if sub.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Submission{}, fmt.Errorf("created_at: %w", err)
	}
	if sub.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return models.Submission{}, fmt.Errorf("updated_at: %w", err)
	}
	return sub, nil
}

func loadRecords(ctx context.Context, q queryer, sub *models.Submission) error {
	rows, err := q.QueryContext(ctx, `SELECT id, submission_id, external_post_id, text, url, posted_at
		FROM post_records WHERE submission_id = ? ORDER BY posted_at, id`, sub.ID)
	if err != nil {
		return fmt.Errorf("load post records: %w", err)
	}
	for rows.Next() {
		var (
			p        models.PostRecord
			postedAt string
		)
		if err := rows.Scan(&p.ID, &p.SubmissionID, &p.ExternalPostID, &p.Text, &p.URL, &postedAt); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan post record: %w", err)
		}
		if p.PostedAt, err = parseTime(postedAt); err != nil {
			_ = rows.Close()
			return fmt.Errorf("post record posted_at: %w", err)
		}
		sub.Posts = append(sub.Posts, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("load post records: %w", err)
	}
	_ = rows.Close()

	rows, err = q.QueryContext(ctx, `SELECT id, submission_id, recipient, message, sent, delivery_status,
		provider_id, error, created_at, sent_at
		FROM notifications WHERE submission_id = ? ORDER BY created_at, id`, sub.ID)
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			n         models.NotificationRecord
			createdAt string
			sentAt    sql.NullString
		)
		if err := rows.Scan(&n.ID, &n.SubmissionID, &n.Recipient, &n.Message, &n.Sent, &n.DeliveryStatus,
			&n.ProviderID, &n.Error, &createdAt, &sentAt); err != nil {
			return fmt.Errorf("scan notification: %w", err)
		}
		if n.CreatedAt, err = parseTime(createdAt); err != nil {
			return fmt.Errorf("notification created_at: %w", err)
		}
		if sentAt.Valid {
			t, err := parseTime(sentAt.String)
			if err != nil {
				return fmt.Errorf("notification sent_at: %w", err)
			}
			n.SentAt = &t
		}
		sub.Notifications = append(sub.Notifications, n)
	}
	return rows.Err()
}

func insertPost(ctx context.Context, tx *sql.Tx, p models.PostRecord) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO post_records (id, submission_id, external_post_id, text, url, posted_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.SubmissionID, p.ExternalPostID, p.Text, p.URL, formatTime(p.PostedAt))
	if err != nil {
		return fmt.Errorf("insert post record: %w", err)
	}
	return nil
}

func insertNotification(ctx context.Context, tx *sql.Tx, n models.NotificationRecord) error {
	var sentAt interface{}
	if n.SentAt != nil {
		sentAt = formatTime(*n.SentAt)
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO notifications (id, submission_id, recipient, message, sent,
		delivery_status, provider_id, error, created_at, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.SubmissionID, n.Recipient, n.Message, n.Sent, n.DeliveryStatus, n.ProviderID, n.Error,
		formatTime(n.CreatedAt), sentAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// timeLayout is fixed width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
