package service

import (
	"context"
	"time"

	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/repository"
)

// Report bundles a client's calendar activity and delivery outcomes for
// a date range. Read-only; the reporting consumer formats it.
type Report struct {
	ClientID int64                     `json:"client_id"`
	From     time.Time                 `json:"from"`
	To       time.Time                 `json:"to"`
	Entries  []*models.CalendarEntry   `json:"entries"`
	Receipts []*models.DeliveryReceipt `json:"receipts"`
}

type ReportService interface {
	Range(ctx context.Context, clientID int64, from, to time.Time) (*Report, error)
}

type reportService struct {
	clients    repository.ClientRepository
	calendar   repository.CalendarRepository
	deliveries repository.DeliveryRepository
}

func NewReportService(clients repository.ClientRepository, calendar repository.CalendarRepository, deliveries repository.DeliveryRepository) ReportService {
	return &reportService{
		clients:    clients,
		calendar:   calendar,
		deliveries: deliveries,
	}
}

func (s *reportService) Range(ctx context.Context, clientID int64, from, to time.Time) (*Report, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	entries, err := s.calendar.ListByClientRange(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}
	receipts, err := s.deliveries.ListByClientRange(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}

	return &Report{
		ClientID: clientID,
		From:     from,
		To:       to,
		Entries:  entries,
		Receipts: receipts,
	}, nil
}
