package queue

import (
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func EnqueueGenerateMonth(asynqClient *asynq.Client, payload GenerateMonthPayload) (string, error) {
	return enqueue(asynqClient, TaskTypeGenerateMonth, payload)
}

func EnqueueReviewMonth(asynqClient *asynq.Client, payload ReviewMonthPayload) (string, error) {
	return enqueue(asynqClient, TaskTypeReviewMonth, payload)
}

func enqueue(asynqClient *asynq.Client, taskType string, payload interface{}) (string, error) {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	task := asynq.NewTask(taskType, taskPayload)

	info, err := asynqClient.Enqueue(task)
	if err != nil {
		return "", err
	}

	log.Printf("Task %s scheduled: %+v", info.ID, payload)
	return info.ID, nil
}
