package service

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"qna_web/internal/models"
	"qna_web/internal/repository"
)

// Question 對外輸出的問題，包含回答與推薦者
type Question struct {
	ID         uint       `json:"id"`
	Subject    string     `json:"subject"`
	Content    string     `json:"content"`
	CreateDate time.Time  `json:"create_date"`
	ModifyDate *time.Time `json:"modify_date"`
	User       *User      `json:"user"`
	Answers    []Answer   `json:"answers"`
	Voter      []User     `json:"voter"`
}

type QuestionList struct {
	Total        int64      `json:"total"`
	QuestionList []Question `json:"question_list"`
}

type QuestionService struct {
	questionRepo repository.QuestionRepository
	events       *EventHub
	now          func() time.Time
}

func NewQuestionService(questionRepo repository.QuestionRepository, events *EventHub) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		events:       events,
		now:          time.Now,
	}
}

// List 分頁查詢，page 從 0 開始
func (s *QuestionService) List(ctx context.Context, page, size int, keyword string) (*QuestionList, error) {
	offset := page * size
	// 頁碼過大時乘積會溢位，直接指到最後面回傳空頁
	if size > 0 && page > math.MaxInt/size {
		offset = math.MaxInt
	}

	questions, total, err := s.questionRepo.List(ctx, repository.QuestionListQuery{
		Offset:  offset,
		Limit:   size,
		Keyword: keyword,
	})
	if err != nil {
		return nil, err
	}

	list := make([]Question, 0, len(questions))
	for i := range questions {
		list = append(list, *convertModelToQuestion(&questions[i]))
	}
	return &QuestionList{Total: total, QuestionList: list}, nil
}

func (s *QuestionService) Get(ctx context.Context, questionID uint) (*Question, error) {
	question, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return convertModelToQuestion(question), nil
}

func (s *QuestionService) Create(ctx context.Context, userID uint, subject, content string) (*Question, error) {
	question := &models.Question{
		Subject:    subject,
		Content:    content,
		CreateDate: s.now(),
		UserID:     &userID,
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}
	return convertModelToQuestion(question), nil
}

// Update 只有作者可以修改
func (s *QuestionService) Update(ctx context.Context, userID, questionID uint, subject, content string) error {
	question, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if !question.IsAuthor(userID) {
		return ErrPermissionDenied
	}

	modifyDate := s.now()
	question.Subject = subject
	question.Content = content
	question.ModifyDate = &modifyDate

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return err
	}

	s.events.Publish(Event{Type: EventQuestionUpdated, QuestionID: questionID, UserID: userID})
	return nil
}

func (s *QuestionService) Delete(ctx context.Context, userID, questionID uint) error {
	question, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	if !question.IsAuthor(userID) {
		return ErrPermissionDenied
	}

	if err := s.questionRepo.DeleteCascade(ctx, question); err != nil {
		return err
	}

	s.events.Publish(Event{Type: EventQuestionDeleted, QuestionID: questionID, UserID: userID})
	return nil
}

// Vote 推薦問題，同一用戶重複推薦視為成功
func (s *QuestionService) Vote(ctx context.Context, userID, questionID uint) error {
	if _, err := s.findQuestion(ctx, questionID); err != nil {
		return err
	}

	if err := s.questionRepo.AddVoter(ctx, questionID, userID); err != nil {
		return err
	}

	s.events.Publish(Event{Type: EventQuestionVoted, QuestionID: questionID, UserID: userID})
	return nil
}

func (s *QuestionService) findQuestion(ctx context.Context, questionID uint) (*models.Question, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

func convertModelToQuestion(model *models.Question) *Question {
	answers := make([]Answer, 0, len(model.Answers))
	for i := range model.Answers {
		answers = append(answers, *convertModelToAnswer(&model.Answers[i]))
	}

	return &Question{
		ID:         model.ID,
		Subject:    model.Subject,
		Content:    model.Content,
		CreateDate: model.CreateDate,
		ModifyDate: model.ModifyDate,
		User:       convertModelToUser(model.User),
		Answers:    answers,
		Voter:      convertModelsToUsers(model.Voters),
	}
}
