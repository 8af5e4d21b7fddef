// Package errs 定義回傳給客戶端的錯誤格式。
//
// 所有 API 錯誤都以相同的 JSON 結構回傳：
//
//	{"code": "BAD_REQUEST", "message": "...", "status": 400, "errors": [{"field": "email", "error": "..."}]}
package errs

import (
	"net/http"
	"strings"
)

// FieldError 單一欄位的驗證錯誤
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError 實作 error，可直接序列化為 JSON 回應
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// MakeUpperCaseWithUnderscores "Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

func newHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}

func NewBadRequestError(message string, errors []FieldError) *HTTPError {
	e := newHTTPError(http.StatusBadRequest, message)
	e.Errors = errors
	return e
}

func NewUnauthorizedError(message string) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, message)
}

func NewNotFoundError(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message)
}

func NewConflictError(message string) *HTTPError {
	return newHTTPError(http.StatusConflict, message)
}

func NewServiceUnavailableError(message string) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, message)
}

// NewInternalServerError 不帶任何內部細節
func NewInternalServerError() *HTTPError {
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
