package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	"github.com/marcreyes/localpost/internal/models"
)

func (j *Queue) HandleGenerateMonthTask(ctx context.Context, task *asynq.Task) error {
	var payload GenerateMonthPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	images := make(map[models.Platform]string, len(payload.Images))
	for p, url := range payload.Images {
		platform, err := models.ParsePlatform(p)
		if err != nil {
			return err
		}
		images[platform] = url
	}

	result, err := j.gs.GenerateMonth(ctx, payload.ClientID, payload.Month, payload.Timezone, images, false)
	if err != nil {
		log.Printf("Error generating content for client %d: %v", payload.ClientID, err)
		return err
	}

	log.Printf("Generated %d drafts for client %d (%s)", result.Inserted, payload.ClientID, payload.Month)
	return nil
}

func (j *Queue) HandleReviewMonthTask(ctx context.Context, task *asynq.Task) error {
	var payload ReviewMonthPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	summary, err := j.qs.ReviewMonth(ctx, payload.ClientID, payload.Month, false, payload.RubricPath)
	if err != nil {
		log.Printf("Error reviewing content for client %d: %v", payload.ClientID, err)
		return err
	}

	log.Printf("Reviewed %d drafts for client %d: %d approved, %d rewritten",
		summary.Reviewed, payload.ClientID, summary.Approved, summary.Rewritten)
	return nil
}
