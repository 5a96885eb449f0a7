package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	config "github.com/marcreyes/localpost/configs"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/repository"
	"github.com/marcreyes/localpost/internal/transfer"
	"github.com/marcreyes/localpost/pkg/utils"
)

type ConnectionService interface {
	StoreConnection(ctx context.Context, req *transfer.ConnectionRequest) (int64, error)
	ListConnections(ctx context.Context, clientID int64) ([]*models.SocialConnection, error)
}

type connectionService struct {
	cfg         config.Config
	clients     repository.ClientRepository
	connections repository.ConnectionRepository
}

func NewConnectionService(cfg config.Config, clients repository.ClientRepository, connections repository.ConnectionRepository) ConnectionService {
	return &connectionService{
		cfg:         cfg,
		clients:     clients,
		connections: connections,
	}
}

// StoreConnection persists the credential the OAuth exchange produced,
// replacing any previous one for the same (client, platform, page).
// Tokens are encrypted before they touch the database.
func (s *connectionService) StoreConnection(ctx context.Context, req *transfer.ConnectionRequest) (int64, error) {
	platform, err := models.ParsePlatform(req.Platform)
	if err != nil {
		return 0, err
	}
	if req.PageID == "" {
		return 0, errors.New("page_id is required")
	}
	if req.AccessToken == "" && req.RefreshToken == "" {
		return 0, errors.New("a credential is required")
	}

	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		return 0, err
	}
	if client == nil {
		return 0, ErrClientNotFound
	}

	conn := &models.SocialConnection{
		ClientID: req.ClientID,
		Platform: platform,
		PageID:   req.PageID,
		PageName: req.PageName,
		Status:   models.ConnectionConnected,
	}

	if req.AccessToken != "" {
		conn.AccessToken, err = utils.Encrypt([]byte(req.AccessToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return 0, fmt.Errorf("error encrypting access token: %w", err)
		}
	}
	if req.RefreshToken != "" {
		conn.RefreshToken, err = utils.Encrypt([]byte(req.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return 0, fmt.Errorf("error encrypting refresh token: %w", err)
		}
	}

	if req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return 0, fmt.Errorf("invalid expires_at format: %w", err)
		}
		conn.ExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
	}

	return s.connections.Upsert(ctx, conn)
}

func (s *connectionService) ListConnections(ctx context.Context, clientID int64) ([]*models.SocialConnection, error) {
	return s.connections.ListByClientID(ctx, clientID)
}
