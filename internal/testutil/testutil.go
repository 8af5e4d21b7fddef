// Package testutil 提供測試共用的資料庫與資料建立工具。
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"qna_web/internal/models"
	"qna_web/internal/storage"
)

// NewDB 建立已遷移的記憶體 sqlite 資料庫，測試結束時自動關閉
func NewDB(t testing.TB) *storage.Database {
	t.Helper()

	db, err := storage.NewSQLiteDB(":memory:", &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func CreateUser(t testing.TB, db *storage.Database, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Password: "not-a-real-hash",
		Email:    username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateQuestion(t testing.TB, db *storage.Database, author *models.User, subject, content string, created time.Time) *models.Question {
	t.Helper()

	question := &models.Question{Subject: subject, Content: content, CreateDate: created}
	if author != nil {
		question.UserID = &author.ID
	}
	require.NoError(t, db.Create(question).Error)
	return question
}

func CreateAnswer(t testing.TB, db *storage.Database, question *models.Question, author *models.User, content string, created time.Time) *models.Answer {
	t.Helper()

	answer := &models.Answer{Content: content, CreateDate: created, QuestionID: question.ID}
	if author != nil {
		answer.UserID = &author.ID
	}
	require.NoError(t, db.Create(answer).Error)
	return answer
}
