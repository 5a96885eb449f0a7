package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	config "github.com/marcreyes/localpost/configs"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestGraphError_OAuthExceptionIsCredentialRejection(t *testing.T) {
	body := []byte(`{"error": {"message": "Error validating access token", "type": "OAuthException", "code": 190}}`)
	err := graphError(body, http.StatusBadRequest)
	assert.ErrorIs(t, err, ErrCredentialRejected)
}

func TestGraphError_Code190IsCredentialRejection(t *testing.T) {
	body := []byte(`{"error": {"message": "Session expired", "type": "GraphMethodException", "code": 190}}`)
	err := graphError(body, http.StatusBadRequest)
	assert.ErrorIs(t, err, ErrCredentialRejected)
}

func TestGraphError_OtherGraphErrorIsNot(t *testing.T) {
	body := []byte(`{"error": {"message": "Unsupported post request", "type": "GraphMethodException", "code": 100}}`)
	err := graphError(body, http.StatusBadRequest)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialRejected)
}

func TestGraphError_UnauthorizedStatusFallback(t *testing.T) {
	err := graphError([]byte("not json"), http.StatusUnauthorized)
	assert.ErrorIs(t, err, ErrCredentialRejected)

	err = graphError([]byte("not json"), http.StatusForbidden)
	assert.ErrorIs(t, err, ErrCredentialRejected)

	err = graphError([]byte("not json"), http.StatusInternalServerError)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCredentialRejected)
}

func TestInstagramPublish_RequiresImage(t *testing.T) {
	svc := NewInstagramService(config.Config{SecretKey: "0123456789abcdef0123456789abcdef"})

	entry := &models.CalendarEntry{
		ID:       1,
		Platform: models.PlatformInstagram,
		PostText: "text only",
		ImageURL: sql.NullString{},
	}
	conn := &models.SocialConnection{PageID: "ig-user", AccessToken: "enc"}

	_, err := svc.Publish(context.Background(), entry, conn)
	assert.ErrorContains(t, err, "require an image")
}
