package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"qna_web/internal/models"
	"qna_web/internal/repository"
)

type Answer struct {
	ID         uint       `json:"id"`
	Content    string     `json:"content"`
	CreateDate time.Time  `json:"create_date"`
	ModifyDate *time.Time `json:"modify_date"`
	QuestionID uint       `json:"question_id"`
	User       *User      `json:"user"`
	Voter      []User     `json:"voter"`
}

type AnswerService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
	events       *EventHub
	now          func() time.Time
}

func NewAnswerService(answerRepo repository.AnswerRepository, questionRepo repository.QuestionRepository, events *EventHub) *AnswerService {
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		events:       events,
		now:          time.Now,
	}
}

// Create 在問題底下新增回答，問題不存在時回傳 ErrQuestionNotFound
func (s *AnswerService) Create(ctx context.Context, userID, questionID uint, content string) (*Answer, error) {
	if _, err := s.questionRepo.FindByID(ctx, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	answer := &models.Answer{
		Content:    content,
		CreateDate: s.now(),
		QuestionID: questionID,
		UserID:     &userID,
	}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, err
	}

	s.events.Publish(Event{Type: EventAnswerCreated, QuestionID: questionID, AnswerID: answer.ID, UserID: userID})
	return convertModelToAnswer(answer), nil
}

func (s *AnswerService) Get(ctx context.Context, answerID uint) (*Answer, error) {
	answer, err := s.findAnswer(ctx, answerID)
	if err != nil {
		return nil, err
	}
	return convertModelToAnswer(answer), nil
}

func (s *AnswerService) Update(ctx context.Context, userID, answerID uint, content string) error {
	answer, err := s.findAnswer(ctx, answerID)
	if err != nil {
		return err
	}
	if !answer.IsAuthor(userID) {
		return ErrPermissionDenied
	}

	modifyDate := s.now()
	answer.Content = content
	answer.ModifyDate = &modifyDate

	if err := s.answerRepo.Update(ctx, answer); err != nil {
		return err
	}

	s.events.Publish(Event{Type: EventAnswerUpdated, QuestionID: answer.QuestionID, AnswerID: answerID, UserID: userID})
	return nil
}

func (s *AnswerService) Delete(ctx context.Context, userID, answerID uint) error {
	answer, err := s.findAnswer(ctx, answerID)
	if err != nil {
		return err
	}
	if !answer.IsAuthor(userID) {
		return ErrPermissionDenied
	}

	if err := s.answerRepo.Delete(ctx, answer); err != nil {
		return err
	}

	s.events.Publish(Event{Type: EventAnswerDeleted, QuestionID: answer.QuestionID, AnswerID: answerID, UserID: userID})
	return nil
}

func (s *AnswerService) Vote(ctx context.Context, userID, answerID uint) error {
	answer, err := s.findAnswer(ctx, answerID)
	if err != nil {
		return err
	}

	if err := s.answerRepo.AddVoter(ctx, answerID, userID); err != nil {
		return err
	}

	s.events.Publish(Event{Type: EventAnswerVoted, QuestionID: answer.QuestionID, AnswerID: answerID, UserID: userID})
	return nil
}

func (s *AnswerService) findAnswer(ctx context.Context, answerID uint) (*models.Answer, error) {
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnswerNotFound
		}
		return nil, err
	}
	return answer, nil
}

func convertModelToAnswer(model *models.Answer) *Answer {
	return &Answer{
		ID:         model.ID,
		Content:    model.Content,
		CreateDate: model.CreateDate,
		ModifyDate: model.ModifyDate,
		QuestionID: model.QuestionID,
		User:       convertModelToUser(model.User),
		Voter:      convertModelsToUsers(model.Voters),
	}
}
