package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/marcreyes/localpost/internal/models"
)

type QALogRepository interface {
	Create(ctx context.Context, entry *models.QALogEntry) (int64, error)
	ListByCalendarID(ctx context.Context, calendarID int64) ([]*models.QALogEntry, error)
}

type qaLogRepository struct {
	db *sql.DB
}

func NewQALogRepository(db *sql.DB) QALogRepository {
	return &qaLogRepository{db: db}
}

func (r *qaLogRepository) Create(ctx context.Context, entry *models.QALogEntry) (int64, error) {
	query := `
		INSERT INTO qa_log (client_id, calendar_id, platform, score_hook, score_local, score_value, score_cta, score_fit, score_voice, score_average, verdict, issues, was_rewritten)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		entry.ClientID, entry.CalendarID, entry.Platform.String(),
		entry.ScoreHook, entry.ScoreLocal, entry.ScoreValue, entry.ScoreCTA,
		entry.ScoreFit, entry.ScoreVoice, entry.ScoreAverage,
		entry.Verdict, pq.Array(entry.Issues), entry.WasRewritten).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *qaLogRepository) ListByCalendarID(ctx context.Context, calendarID int64) ([]*models.QALogEntry, error) {
	query := `SELECT id, client_id, calendar_id, platform, score_hook, score_local, score_value, score_cta, score_fit, score_voice, score_average, verdict, issues, was_rewritten, created_at
		FROM qa_log WHERE calendar_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, calendarID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var entries []*models.QALogEntry
	for rows.Next() {
		var e models.QALogEntry
		err := rows.Scan(&e.ID, &e.ClientID, &e.CalendarID, &e.Platform,
			&e.ScoreHook, &e.ScoreLocal, &e.ScoreValue, &e.ScoreCTA,
			&e.ScoreFit, &e.ScoreVoice, &e.ScoreAverage,
			&e.Verdict, pq.Array(&e.Issues), &e.WasRewritten, &e.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return entries, nil
}
