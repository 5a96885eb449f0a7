package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/repository"
	"github.com/marcreyes/localpost/internal/transfer"
)

type ClientService interface {
	HandlePaymentEvent(ctx context.Context, event *transfer.PaymentEvent) error
}

type clientService struct {
	clients repository.ClientRepository
}

func NewClientService(clients repository.ClientRepository) ClientService {
	return &clientService{clients: clients}
}

// HandlePaymentEvent applies one payment lifecycle event. Checkout
// completion upserts the client keyed on email, so a redelivered event
// is harmless; subscription deletion marks the client cancelled.
func (s *clientService) HandlePaymentEvent(ctx context.Context, event *transfer.PaymentEvent) error {
	switch event.EventType {
	case transfer.EventCheckoutCompleted:
		email := event.Email()
		if email == "" {
			return errors.New("no customer email in checkout event")
		}
		return s.upsertClient(ctx, event, email)

	case transfer.EventSubscriptionCancelled:
		customerID := event.Data.Object.CustomerID
		if customerID == "" {
			return errors.New("no customer id in cancellation event")
		}

		found, err := s.clients.SetStatusByCustomerID(ctx, customerID, models.ClientCancelled)
		if err != nil {
			return fmt.Errorf("cancelling client failed: %w", err)
		}
		if !found {
			slog.Info(fmt.Sprintf("no client found for customer %s (subscription deleted)", customerID))
		}
		return nil
	}

	slog.Info(fmt.Sprintf("unhandled payment event type: %s", event.EventType))
	return nil
}

func (s *clientService) upsertClient(ctx context.Context, event *transfer.PaymentEvent, email string) error {
	existing, err := s.clients.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("fetching client by email failed: %w", err)
	}

	plan := event.Data.Object.Metadata.Plan
	if plan == "" {
		plan = "unknown"
	}

	if existing != nil {
		existing.Name = event.Data.Object.CustomerDetails.Name
		existing.Plan = plan
		existing.Status = models.ClientActive
		existing.CustomerID = event.Data.Object.CustomerID
		if err := s.clients.Update(ctx, existing); err != nil {
			return fmt.Errorf("updating client failed: %w", err)
		}
		return nil
	}

	client := &models.Client{
		Email:      email,
		Name:       event.Data.Object.CustomerDetails.Name,
		City:       event.Data.Object.Metadata.City,
		Plan:       plan,
		Status:     models.ClientActive,
		CustomerID: event.Data.Object.CustomerID,
	}
	if _, err := s.clients.Create(ctx, client); err != nil {
		return fmt.Errorf("creating client failed: %w", err)
	}
	return nil
}
