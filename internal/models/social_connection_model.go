package models

import (
	"database/sql"
	"time"
)

const (
	ConnectionConnected     = "connected"
	ConnectionReauthNeeded  = "reauth_required"
	ConnectionDisconnected  = "disconnected"
)

type SocialConnection struct {
	ID           int64        `db:"id" json:"id"`
	ClientID     int64        `db:"client_id" json:"client_id"`
	Platform     Platform     `db:"platform" json:"platform"`
	PageID       string       `db:"page_id" json:"page_id"`
	PageName     string       `db:"page_name" json:"page_name"`
	AccessToken  string       `db:"access_token" json:"-"`
	RefreshToken string       `db:"refresh_token" json:"-"`
	ExpiresAt    sql.NullTime `db:"expires_at" json:"expires_at"`
	Status       string       `db:"status" json:"status"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// Expired reports whether the stored credential has a known expiry in
// the past relative to now.
func (c *SocialConnection) Expired(now time.Time) bool {
	return c.ExpiresAt.Valid && c.ExpiresAt.Time.Before(now)
}
