package models

import (
	"database/sql"
	"fmt"
	"time"
)

// Status is the lifecycle state of a calendar entry. Entries only ever
// move forward along draft -> pending -> posted/failed.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusPending Status = "pending"
	StatusPosted  Status = "posted"
	StatusFailed  Status = "failed"
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPosted, StatusFailed:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusPosted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a legal
// forward step in the lifecycle.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusPending
	case StatusPending:
		return next == StatusPosted || next == StatusFailed
	}
	return false
}

func (s Status) String() string { return string(s) }

type Platform string

const (
	PlatformFacebook       Platform = "facebook"
	PlatformInstagram      Platform = "instagram"
	PlatformGoogleBusiness Platform = "google_business"
)

// Platforms lists every supported platform in a stable order.
var Platforms = []Platform{PlatformFacebook, PlatformInstagram, PlatformGoogleBusiness}

func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

func (p Platform) Valid() bool {
	switch p {
	case PlatformFacebook, PlatformInstagram, PlatformGoogleBusiness:
		return true
	}
	return false
}

func (p Platform) String() string { return string(p) }

type CalendarEntry struct {
	ID          int64           `db:"id" json:"id"`
	ClientID    int64           `db:"client_id" json:"client_id"`
	Platform    Platform        `db:"platform" json:"platform"`
	PostText    string          `db:"post_text" json:"post_text"`
	ImageURL    sql.NullString  `db:"image_url" json:"image_url"`
	ScheduledAt time.Time       `db:"scheduled_at" json:"scheduled_at"`
	Status      Status          `db:"status" json:"status"`
	StatusPrev  sql.NullString  `db:"status_prev" json:"status_prev"`
	QAScore     sql.NullFloat64 `db:"qa_score" json:"qa_score"`
	QARewritten bool            `db:"qa_rewritten" json:"qa_rewritten"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
