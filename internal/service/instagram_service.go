package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	config "github.com/marcreyes/localpost/configs"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/transfer"
	"github.com/marcreyes/localpost/pkg/utils"
)

type instagramService struct {
	cfg config.Config
}

func NewInstagramService(cfg config.Config) PlatformPublisher {
	return &instagramService{cfg: cfg}
}

// Publish creates a media container for the entry's image and then
// publishes it. Instagram's API has no text-only feed posts, so an
// entry without an image fails before any call is made.
func (s *instagramService) Publish(ctx context.Context, entry *models.CalendarEntry, conn *models.SocialConnection) (string, error) {
	if !entry.ImageURL.Valid || entry.ImageURL.String == "" {
		return "", fmt.Errorf("instagram posts require an image")
	}

	accessToken, err := utils.Decrypt(conn.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("error decrypting access token: %w", err)
	}

	creationID, err := s.createContainer(ctx, conn.PageID, entry.ImageURL.String, entry.PostText, accessToken)
	if err != nil {
		return "", err
	}

	return s.publishContainer(ctx, conn.PageID, creationID, accessToken)
}

func (s *instagramService) createContainer(ctx context.Context, igUserID, imageURL, caption, accessToken string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/media", graphBaseURL, igUserID)

	data := url.Values{}
	data.Set("image_url", imageURL)
	data.Set("caption", caption)
	data.Set("access_token", accessToken)

	body, status, err := postForm(ctx, endpoint, data)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", graphError(body, status)
	}

	var result transfer.MediaContainerResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error parsing container response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("no media container ID returned from Instagram")
	}
	return result.ID, nil
}

func (s *instagramService) publishContainer(ctx context.Context, igUserID, creationID, accessToken string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/media_publish", graphBaseURL, igUserID)

	data := url.Values{}
	data.Set("creation_id", creationID)
	data.Set("access_token", accessToken)

	body, status, err := postForm(ctx, endpoint, data)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", graphError(body, status)
	}

	var result transfer.MediaContainerResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error parsing publish response: %w", err)
	}
	if result.ID == "" {
		return creationID, nil
	}
	return result.ID, nil
}
