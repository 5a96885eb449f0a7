package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	config "github.com/marcreyes/localpost/configs"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/repository"
	"github.com/marcreyes/localpost/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type TokenRefreshJob struct {
	cfg config.Config
	cr  repository.ConnectionRepository
}

func NewTokenRefreshJob(cfg config.Config, cr repository.ConnectionRepository) *TokenRefreshJob {
	return &TokenRefreshJob{cfg: cfg, cr: cr}
}

func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now().UTC()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	connections, err := c.cr.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, conn := range connections {

		wg.Add(1)
		semaphore <- struct{}{}

		go func(conn *models.SocialConnection) {
			defer wg.Done()
			defer func() { <-semaphore }()

			switch conn.Platform {
			case models.PlatformGoogleBusiness:
				if err := c.refreshGoogleToken(ctx, conn); err != nil {
					slog.Info("Unable to refresh token for Google Business", "connection_id", conn.ID)
					if err := c.cr.SetStatus(ctx, conn.ID, models.ConnectionReauthNeeded); err != nil {
						slog.Info(err.Error())
					}
				}

			case models.PlatformFacebook, models.PlatformInstagram:
				// Meta long-lived tokens cannot be refreshed server-side
				// without user interaction, so flag them for reconnect.
				if err := c.cr.SetStatus(ctx, conn.ID, models.ConnectionReauthNeeded); err != nil {
					slog.Info(err.Error())
				}
			}
		}(conn)
	}

	wg.Wait()
}

func (c *TokenRefreshJob) refreshGoogleToken(ctx context.Context, conn *models.SocialConnection) error {
	refreshToken, err := utils.Decrypt(conn.RefreshToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	conf := &oauth2.Config{
		ClientID:     c.cfg.GoogleClientID,
		ClientSecret: c.cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return err
	}

	encrypted, err := utils.Encrypt([]byte(token.AccessToken), []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	return c.cr.SetToken(ctx, conn.ID, encrypted, token.Expiry.UTC())
}
