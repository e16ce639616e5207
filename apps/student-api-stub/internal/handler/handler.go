// Package handler はHTTPリクエストハンドラーを提供する。
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/storage"
	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/token"
	"github.com/oyaguma3/student-records/pkg/logging"
)

// gin.Contextに格納するキー
const (
	TraceIDKey = "trace_id"
	EmailKey   = "email"
)

// Handler は学生APIのハンドラー。
type Handler struct {
	store  storage.Store
	issuer *token.Issuer
	fields *logging.CommonFields
}

// New は新しいHandlerを生成する。
func New(store storage.Store, issuer *token.Issuer, fields *logging.CommonFields) *Handler {
	if fields == nil {
		fields = logging.NewCommonFields(nil)
	}
	return &Handler{
		store:  store,
		issuer: issuer,
		fields: fields,
	}
}

// traceID はミドルウェアが設定したトレースIDを返す。
func traceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}
