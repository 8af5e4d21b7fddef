package models

import "time"

// Question 表示一個提問
type Question struct {
	ID         uint      `gorm:"primaryKey"`
	Subject    string    `gorm:"not null"`
	Content    string    `gorm:"type:text;not null"`
	CreateDate time.Time `gorm:"not null;index"`
	ModifyDate *time.Time

	// 作者可以為空
	UserID *uint
	User   *User

	Answers []Answer `gorm:"foreignKey:QuestionID"`
	Voters  []User   `gorm:"many2many:question_voter;"`
}

// IsAuthor 判斷 userID 是否為作者
func (q *Question) IsAuthor(userID uint) bool {
	return q.UserID != nil && *q.UserID == userID
}

// QuestionVoter 是 question_voter 中介表，(user_id, question_id) 為複合主鍵，
// 同一個用戶對同一個問題只會有一筆推薦
type QuestionVoter struct {
	UserID     uint `gorm:"primaryKey"`
	QuestionID uint `gorm:"primaryKey"`
}

func (QuestionVoter) TableName() string {
	return "question_voter"
}
