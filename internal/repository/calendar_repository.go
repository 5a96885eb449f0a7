package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/marcreyes/localpost/internal/models"
)

type CalendarRepository interface {
	GetByID(ctx context.Context, id int64) (*models.CalendarEntry, error)
	CreateBatch(ctx context.Context, tx *sql.Tx, entries []*models.CalendarEntry) error
	ListDraftsByMonth(ctx context.Context, clientID int64, start, end time.Time) ([]*models.CalendarEntry, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.CalendarEntry, error)
	ListByClientRange(ctx context.Context, clientID int64, from, to time.Time) ([]*models.CalendarEntry, error)
	ClaimPending(ctx context.Context, tx *sql.Tx, id int64) (bool, error)
	SetOutcome(ctx context.Context, tx *sql.Tx, id int64, status models.Status) (bool, error)
	ApplyReview(ctx context.Context, id int64, newText string, rewritten bool, score float64) (bool, error)
}

type calendarRepository struct {
	db *sql.DB
}

func NewCalendarRepository(db *sql.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

const calendarColumns = `id, client_id, platform, post_text, image_url, scheduled_at, status, status_prev, qa_score, qa_rewritten, created_at, updated_at`

func scanEntry(row interface{ Scan(...interface{}) error }) (*models.CalendarEntry, error) {
	var e models.CalendarEntry
	err := row.Scan(&e.ID, &e.ClientID, &e.Platform, &e.PostText, &e.ImageURL,
		&e.ScheduledAt, &e.Status, &e.StatusPrev, &e.QAScore, &e.QARewritten,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *calendarRepository) GetByID(ctx context.Context, id int64) (*models.CalendarEntry, error) {
	query := `SELECT ` + calendarColumns + ` FROM content_calendar WHERE id = $1`
	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return entry, nil
}

func (r *calendarRepository) CreateBatch(ctx context.Context, tx *sql.Tx, entries []*models.CalendarEntry) error {
	query := `
		INSERT INTO content_calendar (client_id, platform, post_text, image_url, scheduled_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	for _, e := range entries {
		var err error
		if tx != nil {
			err = tx.QueryRowContext(ctx, query, e.ClientID, e.Platform.String(), e.PostText, e.ImageURL, e.ScheduledAt, e.Status.String()).Scan(&e.ID)
		} else {
			err = r.db.QueryRowContext(ctx, query, e.ClientID, e.Platform.String(), e.PostText, e.ImageURL, e.ScheduledAt, e.Status.String()).Scan(&e.ID)
		}
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}

func (r *calendarRepository) ListDraftsByMonth(ctx context.Context, clientID int64, start, end time.Time) ([]*models.CalendarEntry, error) {
	query := `SELECT ` + calendarColumns + `
		FROM content_calendar
		WHERE client_id = $1 AND status = $2 AND scheduled_at >= $3 AND scheduled_at < $4
		ORDER BY scheduled_at`
	return r.list(ctx, query, clientID, models.StatusDraft.String(), start, end)
}

func (r *calendarRepository) ListDue(ctx context.Context, now time.Time) ([]*models.CalendarEntry, error) {
	query := `SELECT ` + calendarColumns + `
		FROM content_calendar
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at`
	return r.list(ctx, query, models.StatusPending.String(), now)
}

func (r *calendarRepository) ListByClientRange(ctx context.Context, clientID int64, from, to time.Time) ([]*models.CalendarEntry, error) {
	query := `SELECT ` + calendarColumns + `
		FROM content_calendar
		WHERE client_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3
		ORDER BY scheduled_at`
	return r.list(ctx, query, clientID, from, to)
}

func (r *calendarRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.CalendarEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var entries []*models.CalendarEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return entries, nil
}

// ClaimPending takes an exclusive row lock on a pending entry. The lock
// is the claim: a concurrent dispatcher sees no row (SKIP LOCKED) and
// treats the entry as already taken. Nothing is written until the same
// transaction records the terminal outcome, so a crash mid-call leaves
// the row pending with no orphaned state.
func (r *calendarRepository) ClaimPending(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	query := `SELECT id FROM content_calendar WHERE id = $1 AND status = $2 FOR UPDATE SKIP LOCKED`

	var claimed int64
	err := tx.QueryRowContext(ctx, query, id, models.StatusPending.String()).Scan(&claimed)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return true, nil
}

// SetOutcome moves a pending entry to its terminal status. The status
// guard makes the write a no-op if another dispatcher already finished
// the entry.
func (r *calendarRepository) SetOutcome(ctx context.Context, tx *sql.Tx, id int64, status models.Status) (bool, error) {
	query := `
		UPDATE content_calendar
		SET status = $1, status_prev = $2, updated_at = $3
		WHERE id = $4 AND status = $2
	`
	result, err := tx.ExecContext(ctx, query, status.String(), models.StatusPending.String(), time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

// ApplyReview promotes a reviewed draft to pending, recording the score
// and, on a rewrite, the replacement text. Guarded on status so a
// concurrent run cannot promote the same draft twice.
func (r *calendarRepository) ApplyReview(ctx context.Context, id int64, newText string, rewritten bool, score float64) (bool, error) {
	query := `
		UPDATE content_calendar
		SET status = $1,
			status_prev = $2,
			post_text = CASE WHEN $3 THEN $4 ELSE post_text END,
			qa_rewritten = $3,
			qa_score = $5,
			updated_at = $6
		WHERE id = $7 AND status = $2
	`
	result, err := r.db.ExecContext(ctx, query,
		models.StatusPending.String(), models.StatusDraft.String(),
		rewritten, newText, score, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}
