package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"qna_web/internal/storage"
)

// baseRepository 提供共用的 CRUD，具體的 repository 以嵌入方式使用
type baseRepository[T any] struct {
	db *storage.Database
}

func newBaseRepository[T any](db *storage.Database) baseRepository[T] {
	return baseRepository[T]{db: db}
}

func (r *baseRepository[T]) Create(ctx context.Context, model *T) error {
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *baseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var model T
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// Update 只更新欄位本身，不處理關聯
func (r *baseRepository[T]) Update(ctx context.Context, model *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error
}

func (r *baseRepository[T]) Delete(ctx context.Context, model *T) error {
	return r.db.WithContext(ctx).Delete(model).Error
}
