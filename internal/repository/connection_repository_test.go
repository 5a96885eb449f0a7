package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnectionMock(t *testing.T) (ConnectionRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewConnectionRepository(db), mock, db
}

func connectionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "client_id", "platform", "page_id", "page_name", "access_token",
		"refresh_token", "expires_at", "status", "created_at", "updated_at",
	})
}

func TestConnectionUpsert(t *testing.T) {
	repo, mock, db := newConnectionMock(t)
	defer db.Close()

	conn := &models.SocialConnection{
		ClientID:    1,
		Platform:    models.PlatformFacebook,
		PageID:      "page-1",
		PageName:    "Cool Breeze HVAC",
		AccessToken: "enc-token",
		Status:      models.ConnectionConnected,
	}

	mock.ExpectQuery(`INSERT INTO social_connections .+ ON CONFLICT \(client_id, platform, page_id\) DO UPDATE`).
		WithArgs(int64(1), "facebook", "page-1", "Cool Breeze HVAC", "enc-token", "", conn.ExpiresAt, models.ConnectionConnected).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(33))

	id, err := repo.Upsert(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, int64(33), id)
}

func TestConnectionGetByClientPlatform_NotFound(t *testing.T) {
	repo, mock, db := newConnectionMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM social_connections WHERE client_id = \$1 AND platform = \$2`).
		WithArgs(int64(1), "instagram").
		WillReturnError(sql.ErrNoRows)

	conn, err := repo.GetByClientPlatform(context.Background(), 1, models.PlatformInstagram)
	require.NoError(t, err)
	assert.Nil(t, conn)
}

func TestConnectionListExpiring(t *testing.T) {
	repo, mock, db := newConnectionMock(t)
	defer db.Close()

	now := time.Now()
	until := now.Add(30 * time.Minute)
	expiry := now.Add(10 * time.Minute)

	mock.ExpectQuery(`SELECT .+ FROM social_connections\s+WHERE expires_at IS NOT NULL`).
		WithArgs(now, until).
		WillReturnRows(connectionRows().AddRow(
			5, 1, "google_business", "loc-1", "Cool Breeze HVAC", "enc", "enc-refresh",
			expiry, models.ConnectionConnected, now, now))

	conns, err := repo.ListExpiring(context.Background(), now, until)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, models.PlatformGoogleBusiness, conns[0].Platform)
	assert.True(t, conns[0].ExpiresAt.Valid)
}

func TestConnectionSetToken(t *testing.T) {
	repo, mock, db := newConnectionMock(t)
	defer db.Close()

	expiry := time.Now().Add(time.Hour)
	mock.ExpectExec(`UPDATE social_connections\s+SET access_token = \$1, expires_at = \$2, status = \$3`).
		WithArgs("new-enc-token", expiry, models.ConnectionConnected, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetToken(context.Background(), 5, "new-enc-token", expiry))
}
