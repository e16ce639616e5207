package httputil

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/student-records/pkg/apperr"
)

// 利用者向けの定型メッセージ
const (
	MsgInvalidBody     = "Invalid request body"
	MsgStudentNotFound = "Student not found"
	MsgEmailTaken      = "Email already registered"
	MsgUnexpected      = "An unexpected error occurred"
)

// WriteError はProblemDetailをapplication/problem+jsonで書き込む。
func WriteError(c *gin.Context, problem *ProblemDetail) {
	c.Header("Content-Type", ContentType)
	c.JSON(problem.Status, problem)
}

// AbortWithError はProblemDetailを書き込み、後続のハンドラーを打ち切る。
func AbortWithError(c *gin.Context, problem *ProblemDetail) {
	c.Header("Content-Type", ContentType)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// FromError はアプリケーションエラーを対応するProblemDetailに変換する。
// ValidationErrorは「フィールド名 メッセージ」を表示用メッセージにする。
// 対応付けのないエラーは500とし、内部の詳細は応答に含めない。
func FromError(err error) *ProblemDetail {
	var vErr *apperr.ValidationError
	switch {
	case errors.As(err, &vErr):
		return BadRequest(vErr.Field + " " + vErr.Message)
	case errors.Is(err, apperr.ErrInvalidRequest):
		return BadRequest(MsgInvalidBody)
	case errors.Is(err, apperr.ErrStudentNotFound):
		return NotFound(MsgStudentNotFound)
	case errors.Is(err, apperr.ErrEmailTaken):
		return Conflict(MsgEmailTaken)
	case errors.Is(err, apperr.ErrTokenInvalid):
		return Unauthorized("Invalid or expired token")
	default:
		return InternalServerError(MsgUnexpected)
	}
}

// WriteAppError はFromErrorの結果を書き込む。
func WriteAppError(c *gin.Context, err error) {
	WriteError(c, FromError(err))
}
