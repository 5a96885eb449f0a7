package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/marcreyes/localpost/internal/ai"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/repository"
	"github.com/marcreyes/localpost/internal/transfer"
)

const PostsPerPlatform = 12

type GeneratorService interface {
	GenerateMonth(ctx context.Context, clientID int64, month, timezone string, images map[models.Platform]string, dryRun bool) (*transfer.GenerationResult, error)
}

type generatorService struct {
	db          *sql.DB
	clients     repository.ClientRepository
	connections repository.ConnectionRepository
	calendar    repository.CalendarRepository
	completer   ai.Completer
	postingHour int
}

func NewGeneratorService(
	db *sql.DB,
	clients repository.ClientRepository,
	connections repository.ConnectionRepository,
	calendar repository.CalendarRepository,
	completer ai.Completer,
	postingHour int) GeneratorService {
	return &generatorService{
		db:          db,
		clients:     clients,
		connections: connections,
		calendar:    calendar,
		completer:   completer,
		postingHour: postingHour,
	}
}

var platformGuidance = map[models.Platform]string{
	models.PlatformFacebook:       "Facebook — conversational, 1-3 short paragraphs, can include a call to action. Friendly and informative. Up to 300 words.",
	models.PlatformInstagram:      "Instagram — punchy, visually descriptive, 5-10 lines max, ends with 5-8 relevant hashtags (trade, local city hashtags, seasonal). 150 words max.",
	models.PlatformGoogleBusiness: "Google Business Profile Local Post — professional, concise (100-150 words), focuses on a single offer, tip, or update. No hashtags.",
}

var contentThemes = []string{
	"spring AC tune-up promotion",
	"why regular filter changes save money",
	"signs your AC needs repair before summer",
	"energy-saving tips for summer cooling",
	"indoor air quality and HEPA filters",
	"what an HVAC maintenance plan includes",
	"heating system checkup before winter",
	"emergency service — available 24/7",
	"5-star customer review highlight",
	"furnace efficiency and when to replace",
	"smart thermostat installation benefits",
	"humidity control and comfort",
	"common AC myths debunked",
	"how often to service your HVAC system",
	"duct cleaning benefits",
	"SEER ratings explained — choosing the right unit",
}

// GenerateMonth drafts a full month of posts for every platform the
// client has connected. Each platform batch inserts atomically; a
// platform whose generation call fails is reported and skipped.
func (s *generatorService) GenerateMonth(ctx context.Context, clientID int64, month, timezone string, images map[models.Platform]string, dryRun bool) (*transfer.GenerationResult, error) {
	year, mon, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unsupported timezone %q: %w", timezone, err)
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	if client.Status != models.ClientActive {
		return nil, ErrClientInactive
	}

	conns, err := s.connections.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	slots := postingSlots(year, mon, loc, s.postingHour)
	result := &transfer.GenerationResult{
		ClientID:  clientID,
		Month:     month,
		SlotCount: len(slots),
		DryRun:    dryRun,
	}

	themes := append([]string(nil), contentThemes...)
	rand.Shuffle(len(themes), func(i, j int) { themes[i], themes[j] = themes[j], themes[i] })

	seen := map[models.Platform]bool{}
	for i, conn := range conns {
		platform := conn.Platform
		if seen[platform] {
			continue
		}
		seen[platform] = true

		batch := transfer.PlatformBatch{Platform: platform.String()}

		// Rotate themes so platforms get different coverage.
		platformThemes := rotateThemes(themes, i)

		posts, err := s.generateForPlatform(ctx, client, platform, platformThemes)
		if err != nil {
			slog.Info(err.Error())
			batch.Error = err.Error()
			result.Batches = append(result.Batches, batch)
			continue
		}
		batch.Posts = posts

		if !dryRun {
			if err := s.insertBatch(ctx, clientID, platform, posts, slots, images[platform]); err != nil {
				batch.Error = err.Error()
				batch.Posts = nil
				result.Batches = append(result.Batches, batch)
				continue
			}
			result.Inserted += len(posts)
		}
		result.Batches = append(result.Batches, batch)
	}

	return result, nil
}

func (s *generatorService) generateForPlatform(ctx context.Context, client *models.Client, platform models.Platform, themes []string) ([]string, error) {
	prompt := buildGenerationPrompt(client, platform, themes)

	raw, err := s.completer.Complete(ctx, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed for %s: %w", platform, err)
	}

	var posts []string
	if err := json.Unmarshal([]byte(ai.StripFences(raw)), &posts); err != nil {
		return nil, fmt.Errorf("unexpected generation format for %s: %w", platform, err)
	}
	if len(posts) < PostsPerPlatform {
		return nil, fmt.Errorf("expected %d posts for %s, got %d", PostsPerPlatform, platform, len(posts))
	}

	return posts[:PostsPerPlatform], nil
}

// insertBatch writes one platform's drafts all-or-nothing.
func (s *generatorService) insertBatch(ctx context.Context, clientID int64, platform models.Platform, posts []string, slots []time.Time, imageURL string) error {
	if len(slots) > len(posts) {
		slots = slots[:len(posts)]
	}

	entries := make([]*models.CalendarEntry, 0, len(slots))
	for i, slot := range slots {
		entry := &models.CalendarEntry{
			ClientID:    clientID,
			Platform:    platform,
			PostText:    posts[i],
			ScheduledAt: slot,
			Status:      models.StatusDraft,
		}
		if imageURL != "" {
			entry.ImageURL = sql.NullString{String: imageURL, Valid: true}
		}
		entries = append(entries, entry)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.calendar.CreateBatch(ctx, tx, entries); err != nil {
		return fmt.Errorf("error saving %s batch: %w", platform, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s batch: %w", platform, err)
	}
	return nil
}

func buildGenerationPrompt(client *models.Client, platform models.Platform, themes []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a social media copywriter for %s, a local business in %s.\n\n", client.Name, locality(client))
	fmt.Fprintf(&b, "Platform: %s\n\n", platformGuidance[platform])
	fmt.Fprintf(&b, "Write exactly %d unique social media posts for this company.\n", PostsPerPlatform)
	b.WriteString("Each post should cover one of these themes (you may choose which and reorder them):\n")
	for _, t := range themes {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	b.WriteString(`
Rules:
- Sound like a real local business, not a faceless corporation
- Be helpful and trust-building, not salesy
- Vary the tone: some tips, some offers, some social proof
- DO NOT include image descriptions or stage directions
- Return ONLY a JSON array of strings, nothing else.
  Example format: ["Post text 1", "Post text 2", ...]

Output the JSON array now:`)
	return b.String()
}

func locality(client *models.Client) string {
	if client.City != "" {
		return client.City
	}
	return "their local area"
}

func rotateThemes(themes []string, offset int) []string {
	if len(themes) == 0 {
		return nil
	}
	offset = offset % len(themes)
	rotated := append(append([]string(nil), themes[offset:]...), themes[:offset]...)
	for len(rotated) < PostsPerPlatform {
		rotated = append(rotated, rotated...)
	}
	return rotated[:PostsPerPlatform]
}

// postingSlots returns every Monday, Wednesday and Friday of the month
// at the posting hour in the client's timezone, converted to UTC.
func postingSlots(year int, month time.Month, loc *time.Location, hour int) []time.Time {
	var slots []time.Time
	for d := time.Date(year, month, 1, 0, 0, 0, 0, loc); d.Month() == month; d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Monday, time.Wednesday, time.Friday:
			local := time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, loc)
			slots = append(slots, local.UTC())
		}
	}
	return slots
}

func parseMonth(month string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, 0, fmt.Errorf("month must be in YYYY-MM format: %w", err)
	}
	return t.Year(), t.Month(), nil
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
