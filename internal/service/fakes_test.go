package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/marcreyes/localpost/internal/models"
)

type fakeCompleter struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, user)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	if len(f.responses) > 0 {
		return f.responses[len(f.responses)-1], nil
	}
	return "", errors.New("no scripted response")
}

type fakeClientRepo struct {
	clients  map[int64]*models.Client
	byEmail  map[string]*models.Client
	created  []*models.Client
	updated  []*models.Client
	statuses map[string]models.ClientStatus
}

func newFakeClientRepo(clients ...*models.Client) *fakeClientRepo {
	r := &fakeClientRepo{
		clients:  map[int64]*models.Client{},
		byEmail:  map[string]*models.Client{},
		statuses: map[string]models.ClientStatus{},
	}
	for _, c := range clients {
		r.clients[c.ID] = c
		r.byEmail[c.Email] = c
	}
	return r
}

func (r *fakeClientRepo) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	return r.clients[id], nil
}

func (r *fakeClientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	return r.byEmail[email], nil
}

func (r *fakeClientRepo) Create(ctx context.Context, client *models.Client) (int64, error) {
	r.created = append(r.created, client)
	return int64(len(r.created)), nil
}

func (r *fakeClientRepo) Update(ctx context.Context, client *models.Client) error {
	r.updated = append(r.updated, client)
	return nil
}

func (r *fakeClientRepo) SetStatusByCustomerID(ctx context.Context, customerID string, status models.ClientStatus) (bool, error) {
	r.statuses[customerID] = status
	for _, c := range r.clients {
		if c.CustomerID == customerID {
			return true, nil
		}
	}
	return false, nil
}

type fakeConnectionRepo struct {
	connections []*models.SocialConnection
	statusSet   map[int64]string
}

func newFakeConnectionRepo(conns ...*models.SocialConnection) *fakeConnectionRepo {
	return &fakeConnectionRepo{connections: conns, statusSet: map[int64]string{}}
}

func (r *fakeConnectionRepo) Upsert(ctx context.Context, conn *models.SocialConnection) (int64, error) {
	r.connections = append(r.connections, conn)
	return int64(len(r.connections)), nil
}

func (r *fakeConnectionRepo) GetByClientPlatform(ctx context.Context, clientID int64, platform models.Platform) (*models.SocialConnection, error) {
	for _, c := range r.connections {
		if c.ClientID == clientID && c.Platform == platform {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeConnectionRepo) ListByClientID(ctx context.Context, clientID int64) ([]*models.SocialConnection, error) {
	var out []*models.SocialConnection
	for _, c := range r.connections {
		if c.ClientID == clientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeConnectionRepo) ListExpiring(ctx context.Context, from, until time.Time) ([]*models.SocialConnection, error) {
	return nil, nil
}

func (r *fakeConnectionRepo) SetStatus(ctx context.Context, id int64, status string) error {
	r.statusSet[id] = status
	return nil
}

func (r *fakeConnectionRepo) SetToken(ctx context.Context, id int64, accessToken string, expiresAt time.Time) error {
	return nil
}

type reviewCall struct {
	id        int64
	newText   string
	rewritten bool
	score     float64
}

type fakeCalendarRepo struct {
	entries    map[int64]*models.CalendarEntry
	drafts     []*models.CalendarEntry
	due        []*models.CalendarEntry
	batches    [][]*models.CalendarEntry
	reviews    []reviewCall
	claims     map[int64]bool
	outcomes   map[int64]models.Status
	promoteOK  func(id int64) bool
	applyErr   func(id int64) error
	claimErr   error
	outcomeErr error
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{
		entries:  map[int64]*models.CalendarEntry{},
		claims:   map[int64]bool{},
		outcomes: map[int64]models.Status{},
	}
}

func (r *fakeCalendarRepo) GetByID(ctx context.Context, id int64) (*models.CalendarEntry, error) {
	return r.entries[id], nil
}

func (r *fakeCalendarRepo) CreateBatch(ctx context.Context, tx *sql.Tx, entries []*models.CalendarEntry) error {
	r.batches = append(r.batches, entries)
	return nil
}

func (r *fakeCalendarRepo) ListDraftsByMonth(ctx context.Context, clientID int64, start, end time.Time) ([]*models.CalendarEntry, error) {
	return r.drafts, nil
}

func (r *fakeCalendarRepo) ListDue(ctx context.Context, now time.Time) ([]*models.CalendarEntry, error) {
	return r.due, nil
}

func (r *fakeCalendarRepo) ListByClientRange(ctx context.Context, clientID int64, from, to time.Time) ([]*models.CalendarEntry, error) {
	return nil, nil
}

func (r *fakeCalendarRepo) ClaimPending(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	if r.claimErr != nil {
		return false, r.claimErr
	}
	if taken := r.claims[id]; taken {
		return false, nil
	}
	r.claims[id] = true
	return true, nil
}

func (r *fakeCalendarRepo) SetOutcome(ctx context.Context, tx *sql.Tx, id int64, status models.Status) (bool, error) {
	if r.outcomeErr != nil {
		return false, r.outcomeErr
	}
	if _, done := r.outcomes[id]; done {
		return false, nil
	}
	r.outcomes[id] = status
	return true, nil
}

func (r *fakeCalendarRepo) ApplyReview(ctx context.Context, id int64, newText string, rewritten bool, score float64) (bool, error) {
	if r.applyErr != nil && r.applyErr(id) != nil {
		return false, r.applyErr(id)
	}
	if r.promoteOK != nil && !r.promoteOK(id) {
		return false, nil
	}
	r.reviews = append(r.reviews, reviewCall{id: id, newText: newText, rewritten: rewritten, score: score})
	return true, nil
}

type fakeQALogRepo struct {
	entries []*models.QALogEntry
	err     error
}

func (r *fakeQALogRepo) Create(ctx context.Context, entry *models.QALogEntry) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.entries = append(r.entries, entry)
	return int64(len(r.entries)), nil
}

func (r *fakeQALogRepo) ListByCalendarID(ctx context.Context, calendarID int64) ([]*models.QALogEntry, error) {
	return r.entries, nil
}

type fakeDeliveryRepo struct {
	receipts []*models.DeliveryReceipt
	err      error
}

func (r *fakeDeliveryRepo) Create(ctx context.Context, tx *sql.Tx, receipt *models.DeliveryReceipt) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.receipts = append(r.receipts, receipt)
	return int64(len(r.receipts)), nil
}

func (r *fakeDeliveryRepo) ListByClientRange(ctx context.Context, clientID int64, from, to time.Time) ([]*models.DeliveryReceipt, error) {
	return r.receipts, nil
}

type fakePublisher struct {
	externalID string
	err        error
	calls      int
}

func (p *fakePublisher) Publish(ctx context.Context, entry *models.CalendarEntry, conn *models.SocialConnection) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.externalID, nil
}
