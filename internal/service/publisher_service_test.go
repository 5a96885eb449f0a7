package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingEntry(id int64, platform models.Platform) *models.CalendarEntry {
	return &models.CalendarEntry{
		ID:          id,
		ClientID:    1,
		Platform:    platform,
		PostText:    "Beat the heat with a summer tune-up.",
		ScheduledAt: time.Date(2025, 7, 2, 15, 0, 0, 0, time.UTC),
		Status:      models.StatusPending,
	}
}

func liveConnection(id, clientID int64, platform models.Platform) *models.SocialConnection {
	return &models.SocialConnection{
		ID:          id,
		ClientID:    clientID,
		Platform:    platform,
		PageID:      "page-1",
		AccessToken: "encrypted",
		Status:      models.ConnectionConnected,
	}
}

func dispatchDB(t *testing.T, cycles int) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	// Entries dispatch concurrently, so transaction order is not fixed.
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < cycles; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
	return db, mock
}

func TestDispatchDue_PublishesAndRecordsReceipt(t *testing.T) {
	db, _ := dispatchDB(t, 1)
	defer db.Close()

	calendar := newFakeCalendarRepo()
	calendar.due = []*models.CalendarEntry{pendingEntry(1, models.PlatformFacebook)}
	connections := newFakeConnectionRepo(liveConnection(5, 1, models.PlatformFacebook))
	deliveries := &fakeDeliveryRepo{}
	publisher := &fakePublisher{externalID: "fb-post-123"}

	svc := NewPublisherService(db, calendar, connections, deliveries,
		map[models.Platform]PlatformPublisher{models.PlatformFacebook: publisher})

	summary, err := svc.DispatchDue(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Due)
	assert.Equal(t, 1, summary.Posted)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, publisher.calls)

	assert.Equal(t, models.StatusPosted, calendar.outcomes[1])

	require.Len(t, deliveries.receipts, 1)
	receipt := deliveries.receipts[0]
	assert.Equal(t, "fb-post-123", receipt.ExternalPostID.String)
	assert.True(t, receipt.PostedAt.Valid)
	assert.False(t, receipt.ErrorMessage.Valid)
}

func TestDispatchDue_PlatformErrorMarksFailed(t *testing.T) {
	db, _ := dispatchDB(t, 1)
	defer db.Close()

	calendar := newFakeCalendarRepo()
	calendar.due = []*models.CalendarEntry{pendingEntry(2, models.PlatformInstagram)}
	connections := newFakeConnectionRepo(liveConnection(6, 1, models.PlatformInstagram))
	deliveries := &fakeDeliveryRepo{}
	publisher := &fakePublisher{err: errors.New("media container rejected")}

	svc := NewPublisherService(db, calendar, connections, deliveries,
		map[models.Platform]PlatformPublisher{models.PlatformInstagram: publisher})

	summary, err := svc.DispatchDue(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, models.StatusFailed, calendar.outcomes[2])

	require.Len(t, deliveries.receipts, 1)
	assert.True(t, deliveries.receipts[0].ErrorMessage.Valid)
	assert.Contains(t, deliveries.receipts[0].ErrorMessage.String, "media container rejected")
	assert.False(t, deliveries.receipts[0].ExternalPostID.Valid)
}

func TestDispatchDue_ExpiredCredentialFailsWithoutAPICall(t *testing.T) {
	db, _ := dispatchDB(t, 1)
	defer db.Close()

	now := time.Now().UTC()
	conn := liveConnection(7, 1, models.PlatformFacebook)
	conn.ExpiresAt = sql.NullTime{Time: now.Add(-time.Hour), Valid: true}

	calendar := newFakeCalendarRepo()
	calendar.due = []*models.CalendarEntry{pendingEntry(3, models.PlatformFacebook)}
	deliveries := &fakeDeliveryRepo{}
	publisher := &fakePublisher{externalID: "never"}

	svc := NewPublisherService(db, calendar, newFakeConnectionRepo(conn), deliveries,
		map[models.Platform]PlatformPublisher{models.PlatformFacebook: publisher})

	summary, err := svc.DispatchDue(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 0, publisher.calls)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, models.StatusFailed, calendar.outcomes[3])
	require.Len(t, deliveries.receipts, 1)
	assert.Contains(t, deliveries.receipts[0].ErrorMessage.String, "expired")
}

func TestDispatchDue_MissingConnectionFails(t *testing.T) {
	db, _ := dispatchDB(t, 1)
	defer db.Close()

	calendar := newFakeCalendarRepo()
	calendar.due = []*models.CalendarEntry{pendingEntry(4, models.PlatformGoogleBusiness)}
	deliveries := &fakeDeliveryRepo{}

	svc := NewPublisherService(db, calendar, newFakeConnectionRepo(), deliveries,
		map[models.Platform]PlatformPublisher{})

	summary, err := svc.DispatchDue(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	require.Len(t, deliveries.receipts, 1)
	assert.Contains(t, deliveries.receipts[0].ErrorMessage.String, "no google_business connection")
}

func TestDispatchDue_LostClaimSkipsSilently(t *testing.T) {
	db, mock := dispatchDB(t, 0)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	calendar := newFakeCalendarRepo()
	entry := pendingEntry(5, models.PlatformFacebook)
	calendar.due = []*models.CalendarEntry{entry}
	calendar.claims[5] = true // someone else holds the claim

	deliveries := &fakeDeliveryRepo{}
	publisher := &fakePublisher{externalID: "never"}

	svc := NewPublisherService(db, calendar, newFakeConnectionRepo(liveConnection(8, 1, models.PlatformFacebook)), deliveries,
		map[models.Platform]PlatformPublisher{models.PlatformFacebook: publisher})

	summary, err := svc.DispatchDue(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, publisher.calls)
	assert.Empty(t, deliveries.receipts)
	assert.Empty(t, calendar.outcomes)
}

func TestDispatchDue_DoubleInvocationPublishesOnce(t *testing.T) {
	db, mock := dispatchDB(t, 1)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	calendar := newFakeCalendarRepo()
	calendar.due = []*models.CalendarEntry{pendingEntry(6, models.PlatformFacebook)}
	connections := newFakeConnectionRepo(liveConnection(9, 1, models.PlatformFacebook))
	deliveries := &fakeDeliveryRepo{}
	publisher := &fakePublisher{externalID: "fb-once"}

	svc := NewPublisherService(db, calendar, connections, deliveries,
		map[models.Platform]PlatformPublisher{models.PlatformFacebook: publisher})

	first, err := svc.DispatchDue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	second, err := svc.DispatchDue(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, first.Posted)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 1, publisher.calls)
	assert.Len(t, deliveries.receipts, 1)
}

func TestDispatchDue_RejectedCredentialFlagsReauth(t *testing.T) {
	db, _ := dispatchDB(t, 1)
	defer db.Close()

	calendar := newFakeCalendarRepo()
	calendar.due = []*models.CalendarEntry{pendingEntry(7, models.PlatformFacebook)}
	connections := newFakeConnectionRepo(liveConnection(10, 1, models.PlatformFacebook))
	deliveries := &fakeDeliveryRepo{}
	publisher := &fakePublisher{err: fmt.Errorf("%w: token invalid", ErrCredentialRejected)}

	svc := NewPublisherService(db, calendar, connections, deliveries,
		map[models.Platform]PlatformPublisher{models.PlatformFacebook: publisher})

	summary, err := svc.DispatchDue(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, models.ConnectionReauthNeeded, connections.statusSet[10])
}

func TestDispatchDue_OneFailureDoesNotBlockOthers(t *testing.T) {
	db, _ := dispatchDB(t, 2)
	defer db.Close()

	calendar := newFakeCalendarRepo()
	calendar.due = []*models.CalendarEntry{
		pendingEntry(8, models.PlatformFacebook),
		pendingEntry(9, models.PlatformInstagram),
	}
	connections := newFakeConnectionRepo(
		liveConnection(11, 1, models.PlatformFacebook),
		liveConnection(12, 1, models.PlatformInstagram),
	)
	deliveries := &fakeDeliveryRepo{}

	svc := NewPublisherService(db, calendar, connections, deliveries,
		map[models.Platform]PlatformPublisher{
			models.PlatformFacebook:  &fakePublisher{err: errors.New("graph API down")},
			models.PlatformInstagram: &fakePublisher{externalID: "ig-ok"},
		})

	summary, err := svc.DispatchDue(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Posted)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, models.StatusFailed, calendar.outcomes[8])
	assert.Equal(t, models.StatusPosted, calendar.outcomes[9])
	assert.Len(t, deliveries.receipts, 2)
}

func TestDispatchDue_NothingDue(t *testing.T) {
	db, _ := dispatchDB(t, 0)
	defer db.Close()

	svc := NewPublisherService(db, newFakeCalendarRepo(), newFakeConnectionRepo(), &fakeDeliveryRepo{}, nil)

	summary, err := svc.DispatchDue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Due)
}

func TestTruncateError(t *testing.T) {
	long := strings.Repeat("x", 5000)
	assert.Len(t, truncateError(long), 2000)
	assert.Equal(t, "short", truncateError("short"))
}

func TestTruncateErrorKeepsValidUTF8(t *testing.T) {
	// 1999 ASCII bytes then a three-byte rune straddling the limit.
	msg := strings.Repeat("x", 1999) + strings.Repeat("€", 10)
	got := truncateError(msg)
	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, 1999)

	exact := strings.Repeat("€", 600) + "xx" // 1802 bytes, untouched
	assert.Equal(t, exact, truncateError(exact))
}
