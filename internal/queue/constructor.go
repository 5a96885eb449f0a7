package queue

import (
	"github.com/marcreyes/localpost/internal/service"
)

type Queue struct {
	gs service.GeneratorService
	qs service.QAService
}

func NewQueue(gs service.GeneratorService, qs service.QAService) *Queue {
	return &Queue{
		gs: gs,
		qs: qs,
	}
}

const (
	TaskTypeGenerateMonth = "content:generate"
	TaskTypeReviewMonth   = "content:review"
)

type GenerateMonthPayload struct {
	ClientID int64             `json:"client_id"`
	Month    string            `json:"month"`
	Timezone string            `json:"timezone"`
	Images   map[string]string `json:"images,omitempty"`
}

type ReviewMonthPayload struct {
	ClientID   int64  `json:"client_id"`
	Month      string `json:"month"`
	RubricPath string `json:"rubric_path,omitempty"`
}
