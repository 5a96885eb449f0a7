package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/marcreyes/localpost/internal/models"
)

type ConnectionRepository interface {
	Upsert(ctx context.Context, conn *models.SocialConnection) (int64, error)
	GetByClientPlatform(ctx context.Context, clientID int64, platform models.Platform) (*models.SocialConnection, error)
	ListByClientID(ctx context.Context, clientID int64) ([]*models.SocialConnection, error)
	ListExpiring(ctx context.Context, from, until time.Time) ([]*models.SocialConnection, error)
	SetStatus(ctx context.Context, id int64, status string) error
	SetToken(ctx context.Context, id int64, accessToken string, expiresAt time.Time) error
}

type connectionRepository struct {
	db *sql.DB
}

func NewConnectionRepository(db *sql.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

const connectionColumns = `id, client_id, platform, page_id, page_name, access_token, refresh_token, expires_at, status, created_at, updated_at`

// Upsert replaces any existing credential for (client, platform, page).
// OAuth re-connects land here, so the write must be repeatable.
func (r *connectionRepository) Upsert(ctx context.Context, conn *models.SocialConnection) (int64, error) {
	query := `
		INSERT INTO social_connections (client_id, platform, page_id, page_name, access_token, refresh_token, expires_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (client_id, platform, page_id) DO UPDATE
		SET page_name = EXCLUDED.page_name,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			status = EXCLUDED.status,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		conn.ClientID, conn.Platform.String(), conn.PageID, conn.PageName,
		conn.AccessToken, conn.RefreshToken, conn.ExpiresAt, conn.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *connectionRepository) GetByClientPlatform(ctx context.Context, clientID int64, platform models.Platform) (*models.SocialConnection, error) {
	query := `SELECT ` + connectionColumns + ` FROM social_connections WHERE client_id = $1 AND platform = $2 LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, clientID, platform.String())

	conn, err := scanConnection(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return conn, nil
}

func (r *connectionRepository) ListByClientID(ctx context.Context, clientID int64) ([]*models.SocialConnection, error) {
	query := `SELECT ` + connectionColumns + ` FROM social_connections WHERE client_id = $1 ORDER BY platform`
	return r.list(ctx, query, clientID)
}

func (r *connectionRepository) ListExpiring(ctx context.Context, from, until time.Time) ([]*models.SocialConnection, error) {
	query := `SELECT ` + connectionColumns + `
		FROM social_connections
		WHERE expires_at IS NOT NULL AND (expires_at BETWEEN $1 AND $2 OR expires_at < $1)`
	return r.list(ctx, query, from, until)
}

func (r *connectionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.SocialConnection, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var conns []*models.SocialConnection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		conns = append(conns, conn)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return conns, nil
}

func scanConnection(row interface{ Scan(...interface{}) error }) (*models.SocialConnection, error) {
	var c models.SocialConnection
	err := row.Scan(&c.ID, &c.ClientID, &c.Platform, &c.PageID, &c.PageName,
		&c.AccessToken, &c.RefreshToken, &c.ExpiresAt, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *connectionRepository) SetStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE social_connections SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *connectionRepository) SetToken(ctx context.Context, id int64, accessToken string, expiresAt time.Time) error {
	query := `
		UPDATE social_connections
		SET access_token = $1, expires_at = $2, status = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, accessToken, expiresAt, models.ConnectionConnected, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
