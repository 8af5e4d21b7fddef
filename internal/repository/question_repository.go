package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qna_web/internal/models"
	"qna_web/internal/storage"
)

// QuestionListQuery 問題列表的查詢條件
type QuestionListQuery struct {
	Offset  int
	Limit   int
	Keyword string
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	List(ctx context.Context, query QuestionListQuery) ([]models.Question, int64, error)
	DeleteCascade(ctx context.Context, question *models.Question) error
	AddVoter(ctx context.Context, questionID, userID uint) error
}

type questionRepository struct {
	baseRepository[models.Question]
}

func NewQuestionRepository(db *storage.Database) QuestionRepository {
	return &questionRepository{baseRepository: newBaseRepository[models.Question](db)}
}

// preloadQuestion 載入作者、推薦者，以及依建立時間排序的回答
func preloadQuestion(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Voters", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") }).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.create_date ASC, answers.id ASC") }).
		Preload("Answers.User").
		Preload("Answers.Voters")
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).Scopes(preloadQuestion).First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// List 回傳一頁問題與符合條件的總數
// 關鍵字會比對問題標題、內容、作者名稱，以及任一回答的內容與回答者名稱
func (r *questionRepository) List(ctx context.Context, query QuestionListQuery) ([]models.Question, int64, error) {
	filter := r.keywordFilter(ctx, query.Keyword)

	var total int64
	err := r.db.WithContext(ctx).Model(&models.Question{}).Scopes(filter).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var questions []models.Question
	err = r.db.WithContext(ctx).
		Scopes(filter, preloadQuestion).
		Order("questions.create_date DESC").
		Order("questions.id DESC").
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&questions).Error
	if err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

// keywordFilter 以子查詢找出符合的問題 ID，外層查詢不做 join，
// 所以同一個問題有多個符合的回答時也只會出現一次
func (r *questionRepository) keywordFilter(ctx context.Context, keyword string) func(*gorm.DB) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return func(db *gorm.DB) *gorm.DB { return db }
	}

	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	matched := r.db.WithContext(ctx).
		Table("questions").
		Select("questions.id").
		Joins("LEFT JOIN users AS author ON author.id = questions.user_id").
		Joins("LEFT JOIN answers ON answers.question_id = questions.id").
		Joins("LEFT JOIN users AS answerer ON answerer.id = answers.user_id").
		Where(`LOWER(questions.subject) LIKE ? ESCAPE '\'`+
			` OR LOWER(questions.content) LIKE ? ESCAPE '\'`+
			` OR LOWER(author.username) LIKE ? ESCAPE '\'`+
			` OR LOWER(answers.content) LIKE ? ESCAPE '\'`+
			` OR LOWER(answerer.username) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern, pattern, pattern)

	return func(db *gorm.DB) *gorm.DB {
		return db.Where("questions.id IN (?)", matched)
	}
}

// DeleteCascade 刪除問題，連同其回答與所有推薦紀錄
func (r *questionRepository) DeleteCascade(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answerIDs := tx.Model(&models.Answer{}).Select("id").Where("question_id = ?", question.ID)
		if err := tx.Where("answer_id IN (?)", answerIDs).Delete(&models.AnswerVoter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.QuestionVoter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, question.ID).Error
	})
}

// AddVoter 新增推薦，重複推薦不會報錯也不會新增紀錄
func (r *questionRepository) AddVoter(ctx context.Context, questionID, userID uint) error {
	vote := models.QuestionVoter{UserID: userID, QuestionID: questionID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&vote).Error
}

// escapeLike 跳脫 LIKE 的萬用字元
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
