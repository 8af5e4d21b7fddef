package models

import "time"

// Answer 表示對某個問題的回答
type Answer struct {
	ID         uint      `gorm:"primaryKey"`
	Content    string    `gorm:"type:text;not null"`
	CreateDate time.Time `gorm:"not null"`
	ModifyDate *time.Time

	QuestionID uint `gorm:"not null;index"`

	UserID *uint
	User   *User

	Voters []User `gorm:"many2many:answer_voter;"`
}

func (a *Answer) IsAuthor(userID uint) bool {
	return a.UserID != nil && *a.UserID == userID
}

// AnswerVoter 是 answer_voter 中介表
type AnswerVoter struct {
	UserID   uint `gorm:"primaryKey"`
	AnswerID uint `gorm:"primaryKey"`
}

func (AnswerVoter) TableName() string {
	return "answer_voter"
}
