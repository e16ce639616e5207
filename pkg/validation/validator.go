// Package validation は入力値のバリデーションを提供する。
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/oyaguma3/student-records/pkg/apperr"
	"github.com/oyaguma3/student-records/pkg/model"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// get は共有のvalidatorを返す。
// フィールド名にはJSONタグ名を使う。
func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return instance
}

// Struct はvalidateタグに従って構造体を検証する。
// 最初に見つかった違反を*apperr.ValidationErrorとして返す。
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return apperr.NewValidationError(fe.Field(), message(fe))
}

// message はタグごとの表示用メッセージを返す。
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// ValidateStudent は学生登録フォームを検証する。
// 空白のみの値は未入力として扱う。
func ValidateStudent(req model.CreateStudentRequest) error {
	return Struct(model.NewCreateStudentRequest(req.Nome, req.Email, req.Serie))
}

// ValidateLogin はログインフォームを検証する。
func ValidateLogin(req model.LoginRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	return Struct(req)
}

// ValidateRegister は利用者登録フォームを検証する。
func ValidateRegister(req model.RegisterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	return Struct(req)
}
