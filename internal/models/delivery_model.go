package models

import (
	"database/sql"
	"time"
)

// DeliveryReceipt records the outcome of one publish attempt. Exactly
// one of ExternalPostID / ErrorMessage is set.
type DeliveryReceipt struct {
	ID             int64          `db:"id" json:"id"`
	CalendarID     int64          `db:"calendar_id" json:"calendar_id"`
	ClientID       int64          `db:"client_id" json:"client_id"`
	Platform       Platform       `db:"platform" json:"platform"`
	ExternalPostID sql.NullString `db:"external_post_id" json:"external_post_id"`
	ErrorMessage   sql.NullString `db:"error_message" json:"error_message"`
	PostedAt       sql.NullTime   `db:"posted_at" json:"posted_at"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

type MediaAsset struct {
	ID        int64     `db:"id" json:"id"`
	ClientID  int64     `db:"client_id" json:"client_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	FileType  string    `db:"file_type" json:"file_type"`
	FileSize  int64     `db:"file_size" json:"file_size"`
	FileURL   string    `db:"file_url" json:"file_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
