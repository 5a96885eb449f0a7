package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/repository"
	"github.com/marcreyes/localpost/internal/transfer"
)

// PlatformPublisher posts one calendar entry through a platform API and
// returns the external post id.
type PlatformPublisher interface {
	Publish(ctx context.Context, entry *models.CalendarEntry, conn *models.SocialConnection) (string, error)
}

type PublisherService interface {
	DispatchDue(ctx context.Context, now time.Time) (*transfer.DispatchSummary, error)
}

type publisherService struct {
	db          *sql.DB
	calendar    repository.CalendarRepository
	connections repository.ConnectionRepository
	deliveries  repository.DeliveryRepository
	publishers  map[models.Platform]PlatformPublisher
	callTimeout time.Duration
}

func NewPublisherService(
	db *sql.DB,
	calendar repository.CalendarRepository,
	connections repository.ConnectionRepository,
	deliveries repository.DeliveryRepository,
	publishers map[models.Platform]PlatformPublisher) PublisherService {
	return &publisherService{
		db:          db,
		calendar:    calendar,
		connections: connections,
		deliveries:  deliveries,
		publishers:  publishers,
		callTimeout: 30 * time.Second,
	}
}

const dispatchConcurrency = 5

// DispatchDue publishes every pending entry whose scheduled time has
// passed. Entries are claimed one at a time; overlapping invocations
// racing on the same entry resolve to exactly one publish attempt, the
// loser skipping silently. One entry's failure never blocks another.
func (s *publisherService) DispatchDue(ctx context.Context, now time.Time) (*transfer.DispatchSummary, error) {
	due, err := s.calendar.ListDue(ctx, now)
	if err != nil {
		return nil, err
	}

	summary := &transfer.DispatchSummary{Due: len(due)}
	if len(due) == 0 {
		return summary, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, dispatchConcurrency)

	for _, entry := range due {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(entry *models.CalendarEntry) {
			defer wg.Done()
			defer func() { <-semaphore }()

			status, err := s.dispatch(ctx, entry, now)
			if err != nil {
				slog.Info(fmt.Sprintf("dispatch error for calendar entry %d: %v", entry.ID, err))
			}

			mu.Lock()
			switch status {
			case models.StatusPosted:
				summary.Posted++
			case models.StatusFailed:
				summary.Failed++
			default:
				summary.Skipped++
			}
			mu.Unlock()
		}(entry)
	}

	wg.Wait()
	return summary, nil
}

// dispatch runs one claim-and-call sequence. The claim, the terminal
// status write and the delivery receipt all commit in one transaction,
// so a crash mid-call rolls the entry back to pending.
func (s *publisherService) dispatch(ctx context.Context, entry *models.CalendarEntry, now time.Time) (models.Status, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	claimed, err := s.calendar.ClaimPending(ctx, tx, entry.ID)
	if err != nil {
		return "", err
	}
	if !claimed {
		// Another invocation owns or already finished this entry.
		return "", nil
	}

	conn, err := s.connections.GetByClientPlatform(ctx, entry.ClientID, entry.Platform)
	if err != nil {
		return "", err
	}

	var externalID string
	var callErr error
	var rejected bool

	switch {
	case conn == nil:
		callErr = fmt.Errorf("no %s connection found for client %d", entry.Platform, entry.ClientID)
	case conn.Expired(now):
		callErr = fmt.Errorf("%s credential for client %d expired at %s", entry.Platform, entry.ClientID, conn.ExpiresAt.Time.Format(time.RFC3339))
	default:
		publisher, ok := s.publishers[entry.Platform]
		if !ok {
			callErr = fmt.Errorf("no publisher registered for platform %s", entry.Platform)
			break
		}

		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		externalID, callErr = publisher.Publish(callCtx, entry, conn)
		cancel()

		rejected = callErr != nil && errors.Is(callErr, ErrCredentialRejected)
	}

	status := models.StatusPosted
	receipt := &models.DeliveryReceipt{
		CalendarID: entry.ID,
		ClientID:   entry.ClientID,
		Platform:   entry.Platform,
	}
	if callErr != nil {
		status = models.StatusFailed
		receipt.ErrorMessage = sql.NullString{String: truncateError(callErr.Error()), Valid: true}
	} else {
		receipt.ExternalPostID = sql.NullString{String: externalID, Valid: true}
		receipt.PostedAt = sql.NullTime{Time: time.Now(), Valid: true}
	}

	updated, err := s.calendar.SetOutcome(ctx, tx, entry.ID, status)
	if err != nil {
		return "", err
	}
	if !updated {
		return "", nil
	}

	if _, err := s.deliveries.Create(ctx, tx, receipt); err != nil {
		return "", fmt.Errorf("error saving delivery receipt: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit dispatch: %w", err)
	}

	if rejected && conn != nil {
		if err := s.connections.SetStatus(ctx, conn.ID, models.ConnectionReauthNeeded); err != nil {
			slog.Info(err.Error())
		}
	}

	return status, callErr
}

func truncateError(msg string) string {
	const max = 2000
	if len(msg) <= max {
		return msg
	}
	// Cut on a rune boundary so the stored message stays valid UTF-8.
	cut := max
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
