package models

import "time"

type ClientStatus string

const (
	ClientActive    ClientStatus = "active"
	ClientPaused    ClientStatus = "paused"
	ClientCancelled ClientStatus = "cancelled"
)

func (s ClientStatus) Valid() bool {
	switch s {
	case ClientActive, ClientPaused, ClientCancelled:
		return true
	}
	return false
}

type Client struct {
	ID         int64        `db:"id" json:"id"`
	Email      string       `db:"email" json:"email"`
	Name       string       `db:"name" json:"name"`
	City       string       `db:"city" json:"city"`
	Plan       string       `db:"plan" json:"plan"`
	Status     ClientStatus `db:"status" json:"status"`
	CustomerID string       `db:"customer_id" json:"customer_id"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}
