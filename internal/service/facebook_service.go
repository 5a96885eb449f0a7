package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	config "github.com/marcreyes/localpost/configs"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/transfer"
	"github.com/marcreyes/localpost/pkg/utils"
)

const graphBaseURL = "https://graph.facebook.com/v19.0"

type facebookService struct {
	cfg config.Config
}

func NewFacebookService(cfg config.Config) PlatformPublisher {
	return &facebookService{cfg: cfg}
}

// Publish posts to the connected Facebook page: the photos edge when
// the entry carries an image, the feed edge otherwise.
func (s *facebookService) Publish(ctx context.Context, entry *models.CalendarEntry, conn *models.SocialConnection) (string, error) {
	pageToken, err := utils.Decrypt(conn.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("error decrypting page token: %w", err)
	}

	var endpoint string
	data := url.Values{}
	data.Set("access_token", pageToken)

	if entry.ImageURL.Valid && entry.ImageURL.String != "" {
		endpoint = fmt.Sprintf("%s/%s/photos", graphBaseURL, conn.PageID)
		data.Set("url", entry.ImageURL.String)
		data.Set("caption", entry.PostText)
	} else {
		endpoint = fmt.Sprintf("%s/%s/feed", graphBaseURL, conn.PageID)
		data.Set("message", entry.PostText)
	}

	body, status, err := postForm(ctx, endpoint, data)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", graphError(body, status)
	}

	var result transfer.GraphPostResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error parsing Facebook response: %w", err)
	}
	if result.PostID != "" {
		return result.PostID, nil
	}
	if result.ID == "" {
		return "", fmt.Errorf("no post ID returned from Facebook")
	}
	return result.ID, nil
}

func postForm(ctx context.Context, endpoint string, data url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// graphError turns a non-200 Graph API response into an error,
// classifying OAuth failures as credential rejections.
func graphError(body []byte, status int) error {
	var errResp transfer.GraphErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		if errResp.Error.Type == "OAuthException" || errResp.Error.Code == 190 {
			return fmt.Errorf("%w: %s", ErrCredentialRejected, errResp.Error.Message)
		}
		return fmt.Errorf("graph API error (code %d): %s", errResp.Error.Code, errResp.Error.Message)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%w: status %d", ErrCredentialRejected, status)
	}
	return fmt.Errorf("unexpected status code from graph API: %d", status)
}
