package models

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusDraft, StatusPending, true},
		{StatusPending, StatusPosted, true},
		{StatusPending, StatusFailed, true},
		{StatusDraft, StatusPosted, false},
		{StatusDraft, StatusFailed, false},
		{StatusPending, StatusDraft, false},
		{StatusPosted, StatusPending, false},
		{StatusPosted, StatusFailed, false},
		{StatusFailed, StatusPending, false},
		{StatusFailed, StatusPosted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusDraft.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusPosted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("pending")
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	_, err = ParseStatus("in_flight")
	assert.Error(t, err)
}

func TestParsePlatform(t *testing.T) {
	p, err := ParsePlatform("google_business")
	assert.NoError(t, err)
	assert.Equal(t, PlatformGoogleBusiness, p)

	_, err = ParsePlatform("tiktok")
	assert.Error(t, err)
}

func TestConnectionExpired(t *testing.T) {
	now := time.Now()

	fresh := &SocialConnection{}
	assert.False(t, fresh.Expired(now), "no expiry means never expired")

	live := &SocialConnection{ExpiresAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true}}
	assert.False(t, live.Expired(now))

	stale := &SocialConnection{ExpiresAt: sql.NullTime{Time: now.Add(-time.Minute), Valid: true}}
	assert.True(t, stale.Expired(now))
}
