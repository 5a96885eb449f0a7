package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	config "github.com/marcreyes/localpost/configs"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/transfer"
	"github.com/marcreyes/localpost/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const gbpBaseURL = "https://mybusiness.googleapis.com/v4"

type googleBusinessService struct {
	cfg config.Config
}

func NewGoogleBusinessService(cfg config.Config) PlatformPublisher {
	return &googleBusinessService{cfg: cfg}
}

// Publish creates a Local Post on the connected Google Business
// Profile location. The stored credential is a refresh token; a fresh
// access token is minted for every attempt.
func (s *googleBusinessService) Publish(ctx context.Context, entry *models.CalendarEntry, conn *models.SocialConnection) (string, error) {
	refreshToken, err := utils.Decrypt(conn.RefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("error decrypting refresh token: %w", err)
	}

	accessToken, err := s.freshAccessToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"languageCode": "en-US",
		"summary":      entry.PostText,
		"topicType":    "STANDARD",
	}
	if entry.ImageURL.Valid && entry.ImageURL.String != "" {
		payload["media"] = []map[string]string{
			{"mediaFormat": "PHOTO", "sourceUrl": entry.ImageURL.String},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	// conn.PageID holds the location name, e.g. "accounts/123/locations/456".
	endpoint := fmt.Sprintf("%s/%s/localPosts", gbpBaseURL, conn.PageID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: status %d", ErrCredentialRejected, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code from Google Business: %d", resp.StatusCode)
	}

	var result transfer.LocalPostResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("error parsing local post response: %w", err)
	}
	if result.Name == "" {
		return "", fmt.Errorf("no post name returned from Google Business")
	}
	return result.Name, nil
}

func (s *googleBusinessService) freshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	conf := &oauth2.Config{
		ClientID:     s.cfg.GoogleClientID,
		ClientSecret: s.cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCredentialRejected, err)
	}
	return token.AccessToken, nil
}
