package models

// User 表示系統中的用戶
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"uniqueIndex;not null"` // 用戶名，必須唯一
	Password string `gorm:"not null"`             // bcrypt 雜湊後的密碼
	Email    string `gorm:"uniqueIndex;not null"`
}
