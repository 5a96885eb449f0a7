package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/marcreyes/localpost/internal/ai"
	"github.com/marcreyes/localpost/internal/models"
	"github.com/marcreyes/localpost/internal/repository"
	"github.com/marcreyes/localpost/internal/transfer"
)

type QAService interface {
	ReviewMonth(ctx context.Context, clientID int64, month string, dryRun bool, rubricPath string) (*transfer.ReviewSummary, error)
}

type qaService struct {
	clients   repository.ClientRepository
	calendar  repository.CalendarRepository
	qaLog     repository.QALogRepository
	completer ai.Completer
}

func NewQAService(
	clients repository.ClientRepository,
	calendar repository.CalendarRepository,
	qaLog repository.QALogRepository,
	completer ai.Completer) QAService {
	return &qaService{
		clients:   clients,
		calendar:  calendar,
		qaLog:     qaLog,
		completer: completer,
	}
}

var platformLabels = map[models.Platform]string{
	models.PlatformFacebook:       "Facebook",
	models.PlatformInstagram:      "Instagram",
	models.PlatformGoogleBusiness: "Google Business Profile (GBP)",
}

// ReviewMonth scores every draft for the client and month, rewrites the
// ones below threshold, and promotes all reviewed drafts to pending.
// A draft whose scoring call fails stays a draft and the run carries on.
func (s *qaService) ReviewMonth(ctx context.Context, clientID int64, month string, dryRun bool, rubricPath string) (*transfer.ReviewSummary, error) {
	year, mon, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	rubric := DefaultRubric()
	if rubricPath != "" {
		rubric, err = LoadRubric(rubricPath)
		if err != nil {
			return nil, err
		}
	}

	start, end := monthBounds(year, mon)
	drafts, err := s.calendar.ListDraftsByMonth(ctx, clientID, start, end)
	if err != nil {
		return nil, err
	}

	summary := &transfer.ReviewSummary{ClientID: clientID, Month: month, DryRun: dryRun}
	var totalScore float64

	count := func(average float64, rewrite bool) {
		totalScore += average
		summary.Reviewed++
		if rewrite {
			summary.Rewritten++
		} else {
			summary.Approved++
		}
	}

	for _, draft := range drafts {
		qa, err := s.scoreDraft(ctx, client, draft, rubric)
		if err != nil {
			slog.Info(fmt.Sprintf("QA failed for calendar entry %d: %v", draft.ID, err))
			summary.Skipped++
			continue
		}

		rewrite := qa.Average < rubric.Threshold
		rewritten := rewrite && strings.TrimSpace(qa.ImprovedVersion) != ""
		newText := draft.PostText
		if rewritten {
			newText = strings.TrimSpace(qa.ImprovedVersion)
		}

		verdict := models.VerdictApproved
		if rewrite {
			verdict = models.VerdictRewrite
		}

		if dryRun {
			count(qa.Average, rewrite)
			continue
		}

		promoted, err := s.calendar.ApplyReview(ctx, draft.ID, newText, rewritten, qa.Average)
		if err != nil {
			// Not reviewed, only skipped: the draft stays a draft.
			slog.Info(err.Error())
			summary.Skipped++
			continue
		}
		count(qa.Average, rewrite)
		if !promoted {
			// Another run got there first; the review is not repeated.
			continue
		}

		logEntry := &models.QALogEntry{
			ClientID:     draft.ClientID,
			CalendarID:   draft.ID,
			Platform:     draft.Platform,
			ScoreHook:    qa.Scores.HookStrength,
			ScoreLocal:   qa.Scores.LocalSpecificity,
			ScoreValue:   qa.Scores.ValueDelivery,
			ScoreCTA:     qa.Scores.CTAClarity,
			ScoreFit:     qa.Scores.PlatformFit,
			ScoreVoice:   qa.Scores.Authenticity,
			ScoreAverage: qa.Average,
			Verdict:      verdict,
			Issues:       qa.Issues,
			WasRewritten: rewritten,
		}
		if _, err := s.qaLog.Create(ctx, logEntry); err != nil {
			slog.Info(fmt.Sprintf("error saving QA log for calendar entry %d: %v", draft.ID, err))
		}
	}

	if summary.Reviewed > 0 {
		summary.AverageScore = math.Round(totalScore/float64(summary.Reviewed)*10) / 10
	}
	return summary, nil
}

func (s *qaService) scoreDraft(ctx context.Context, client *models.Client, draft *models.CalendarEntry, rubric *Rubric) (*transfer.QAResult, error) {
	system, user := buildReviewPrompt(client, draft, rubric)

	raw, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	var result transfer.QAResult
	if err := json.Unmarshal([]byte(ai.StripFences(raw)), &result); err != nil {
		return nil, fmt.Errorf("unexpected QA response format: %w", err)
	}

	// The model's own average and verdict are advisory; recompute both.
	result.Average = math.Round(result.Scores.Average()*10) / 10

	return &result, nil
}

func buildReviewPrompt(client *models.Client, draft *models.CalendarEntry, rubric *Rubric) (string, string) {
	label, ok := platformLabels[draft.Platform]
	if !ok {
		label = draft.Platform.String()
	}

	system := fmt.Sprintf(`You are a senior social media content QA specialist for local businesses.
You review posts and score them on a strict rubric. You have extremely high standards.
Generic, AI-sounding, or weak content always fails your review.

Your scoring rubric:

%s

You MUST respond with valid JSON only — no markdown, no explanation outside the JSON.`, rubric.PromptSection())

	user := fmt.Sprintf(`Review this social media post for %s, a local business in %s.

Platform: %s
Company: %s
City: %s

--- POST TEXT ---
%s
--- END POST ---

Score this post on all 6 dimensions. If the average is below %.1f, write an improved version.

Respond with ONLY this JSON structure (no markdown fences):
{
  "scores": {
    "hook_strength": <1-10>,
    "local_specificity": <1-10>,
    "value_delivery": <1-10>,
    "cta_clarity": <1-10>,
    "platform_fit": <1-10>,
    "authenticity": <1-10>
  },
  "average": <decimal>,
  "verdict": "APPROVED" or "REWRITE",
  "issues": ["issue 1", "issue 2"],
  "improved_version": "<rewritten post text, or empty string if APPROVED>"
}`, client.Name, locality(client), label, client.Name, locality(client), draft.PostText, rubric.Threshold)

	return system, user
}
