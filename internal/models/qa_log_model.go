package models

import "time"

const (
	VerdictApproved = "approved"
	VerdictRewrite  = "rewrite"
)

// QALogEntry is one immutable review record. Rows are append-only; a
// draft gets exactly one row per QA run that reached it.
type QALogEntry struct {
	ID           int64     `db:"id" json:"id"`
	ClientID     int64     `db:"client_id" json:"client_id"`
	CalendarID   int64     `db:"calendar_id" json:"calendar_id"`
	Platform     Platform  `db:"platform" json:"platform"`
	ScoreHook    float64   `db:"score_hook" json:"score_hook"`
	ScoreLocal   float64   `db:"score_local" json:"score_local"`
	ScoreValue   float64   `db:"score_value" json:"score_value"`
	ScoreCTA     float64   `db:"score_cta" json:"score_cta"`
	ScoreFit     float64   `db:"score_fit" json:"score_fit"`
	ScoreVoice   float64   `db:"score_voice" json:"score_voice"`
	ScoreAverage float64   `db:"score_average" json:"score_average"`
	Verdict      string    `db:"verdict" json:"verdict"`
	Issues       []string  `db:"issues" json:"issues"`
	WasRewritten bool      `db:"was_rewritten" json:"was_rewritten"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
