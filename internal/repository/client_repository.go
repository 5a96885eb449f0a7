package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/marcreyes/localpost/internal/models"
)

type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) (int64, error)
	Update(ctx context.Context, client *models.Client) error
	SetStatusByCustomerID(ctx context.Context, customerID string, status models.ClientStatus) (bool, error)
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, email, name, city, plan, status, customer_id, created_at, updated_at`

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	return r.get(ctx, query, email)
}

func (r *clientRepository) get(ctx context.Context, query string, arg interface{}) (*models.Client, error) {
	row := r.db.QueryRowContext(ctx, query, arg)

	var c models.Client
	err := row.Scan(&c.ID, &c.Email, &c.Name, &c.City, &c.Plan, &c.Status, &c.CustomerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) (int64, error) {
	query := `
		INSERT INTO clients (email, name, city, plan, status, customer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, client.Email, client.Name, client.City, client.Plan, client.Status, client.CustomerID).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, plan = $2, status = $3, customer_id = $4, updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query, client.Name, client.Plan, client.Status, client.CustomerID, time.Now(), client.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *clientRepository) SetStatusByCustomerID(ctx context.Context, customerID string, status models.ClientStatus) (bool, error) {
	query := `UPDATE clients SET status = $1, updated_at = $2 WHERE customer_id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), customerID)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected > 0, nil
}
