// Package models 定義資料庫模型。
package models

// All 回傳需要自動遷移的模型
func All() []interface{} {
	return []interface{}{&User{}, &Question{}, &Answer{}, &QuestionVoter{}, &AnswerVoter{}}
}
