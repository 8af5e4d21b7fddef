package repository

import (
	"context"

	"qna_web/internal/storage"
)

// Pinger 用於健康檢查
type Pinger interface {
	Ping(ctx context.Context) error
}

type Repositories struct {
	User     UserRepository
	Question QuestionRepository
	Answer   AnswerRepository
	DB       Pinger
}

func NewRepositories(db *storage.Database) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Question: NewQuestionRepository(db),
		Answer:   NewAnswerRepository(db),
		DB:       db,
	}
}
