package service

import (
	"context"

	"github.com/rs/zerolog"

	"qna_web/internal/repository"
	"qna_web/pkg/utils"
)

type Services struct {
	User     *UserService
	Question *QuestionService
	Answer   *AnswerService
	Events   *EventHub
	Health   *HealthService
}

func NewServices(repos *repository.Repositories, tokens *utils.TokenManager, log zerolog.Logger) *Services {
	events := NewEventHub(log)

	return &Services{
		User:     NewUserService(repos.User, tokens),
		Question: NewQuestionService(repos.Question, events),
		Answer:   NewAnswerService(repos.Answer, repos.Question, events),
		Events:   events,
		Health:   &HealthService{db: repos.DB},
	}
}

type HealthService struct {
	db repository.Pinger
}

func (s *HealthService) Check(ctx context.Context) error {
	return s.db.Ping(ctx)
}
