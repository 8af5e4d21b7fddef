// Package validation 註冊 gin binding 使用的自訂規則，並把驗證錯誤轉成欄位錯誤。
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"qna_web/internal/errs"
)

var registerOnce sync.Once

// Register 在 gin 預設的 validator 上註冊 notblank，並以 json tag 作為欄位名稱
// 註冊失敗時 panic
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(fmt.Sprintf("validation: register notblank: %v", err))
		}
		v.RegisterTagNameFunc(fieldName)
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// BindError 把 ShouldBind 的錯誤轉成 400
func BindError(err error) *errs.HTTPError {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return errs.NewBadRequestError("Validation failed", extractFieldErrors(validationErrors))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return errs.NewBadRequestError("Validation failed", []errs.FieldError{
			{Field: typeErr.Field, Error: fmt.Sprintf("must be %s", typeErr.Type.String())},
		})
	case errors.As(err, &syntaxErr):
		return errs.NewBadRequestError("malformed JSON body", nil)
	default:
		return errs.NewBadRequestError(err.Error(), nil)
	}
}

func extractFieldErrors(validationErrors validator.ValidationErrors) []errs.FieldError {
	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"
		case "notblank":
			msg = "must not be blank"
		case "email":
			msg = "must be a valid email address"
		case "eqfield":
			msg = fmt.Sprintf("must match %s", strings.ToLower(err.Param()))
		case "min":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}
		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}
		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s:%s", err.Tag(), err.Param())
			} else {
				msg = err.Tag()
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{Field: err.Field(), Error: msg})
	}
	return fieldErrors
}
