package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/marcreyes/localpost/internal/models"
)

type DeliveryRepository interface {
	Create(ctx context.Context, tx *sql.Tx, receipt *models.DeliveryReceipt) (int64, error)
	ListByClientRange(ctx context.Context, clientID int64, from, to time.Time) ([]*models.DeliveryReceipt, error)
}

type deliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, tx *sql.Tx, receipt *models.DeliveryReceipt) (int64, error) {
	query := `
		INSERT INTO delivery_receipts (calendar_id, client_id, platform, external_post_id, error_message, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, receipt.CalendarID, receipt.ClientID, receipt.Platform.String(),
			receipt.ExternalPostID, receipt.ErrorMessage, receipt.PostedAt).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, receipt.CalendarID, receipt.ClientID, receipt.Platform.String(),
			receipt.ExternalPostID, receipt.ErrorMessage, receipt.PostedAt).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *deliveryRepository) ListByClientRange(ctx context.Context, clientID int64, from, to time.Time) ([]*models.DeliveryReceipt, error) {
	query := `SELECT id, calendar_id, client_id, platform, external_post_id, error_message, posted_at, created_at
		FROM delivery_receipts
		WHERE client_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, clientID, from, to)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var receipts []*models.DeliveryReceipt
	for rows.Next() {
		var d models.DeliveryReceipt
		err := rows.Scan(&d.ID, &d.CalendarID, &d.ClientID, &d.Platform,
			&d.ExternalPostID, &d.ErrorMessage, &d.PostedAt, &d.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		receipts = append(receipts, &d)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return receipts, nil
}
