package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qna_web/internal/models"
	"qna_web/internal/storage"
)

type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	FindByID(ctx context.Context, id uint) (*models.Answer, error)
	Update(ctx context.Context, answer *models.Answer) error
	Delete(ctx context.Context, answer *models.Answer) error
	AddVoter(ctx context.Context, answerID, userID uint) error
}

type answerRepository struct {
	baseRepository[models.Answer]
}

func NewAnswerRepository(db *storage.Database) AnswerRepository {
	return &answerRepository{baseRepository: newBaseRepository[models.Answer](db)}
}

func (r *answerRepository) FindByID(ctx context.Context, id uint) (*models.Answer, error) {
	var answer models.Answer
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Voters", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") }).
		First(&answer, id).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// Delete 刪除回答與它的推薦紀錄
func (r *answerRepository) Delete(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", answer.ID).Delete(&models.AnswerVoter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Answer{}, answer.ID).Error
	})
}

func (r *answerRepository) AddVoter(ctx context.Context, answerID, userID uint) error {
	vote := models.AnswerVoter{UserID: userID, AnswerID: answerID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&vote).Error
}
