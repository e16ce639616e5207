package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/handler"
	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/token"
	"github.com/oyaguma3/student-records/pkg/httputil"
	"github.com/oyaguma3/student-records/pkg/logging"
)

const (
	traceIDHeader = "X-Trace-ID"
	bearerPrefix  = "Bearer "
)

// TraceIDMiddleware はX-Trace-IDヘッダからトレースIDを取得する。
// ヘッダが無ければ新しく採番し、レスポンスにも付与する。
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(handler.TraceIDKey, traceID)
		c.Header(traceIDHeader, traceID)
		c.Next()
	}
}

// LoggingMiddleware はリクエストログを出力する。
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		attrs := []any{
			logging.WithTraceID(c.GetString(handler.TraceIDKey)),
			logging.WithEventID("STUB_REQ"),
			logging.WithSrcIP(c.ClientIP()),
			logging.WithHTTPStatus(c.Writer.Status()),
			logging.WithLatency(time.Since(start).Milliseconds()),
		}
		attrs = append(attrs, logging.WithRequest(c.Request.Method, c.Request.URL.Path)...)
		slog.Info("request completed", attrs...)
	}
}

// RecoveryMiddleware はパニックからの復旧を行う。
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered",
					logging.WithTraceID(c.GetString(handler.TraceIDKey)),
					logging.WithEventID("STUB_PANIC"),
					"error", err,
				)
				httputil.AbortWithError(c, httputil.InternalServerError(httputil.MsgUnexpected))
			}
		}()
		c.Next()
	}
}

// AuthMiddleware はBearerトークンを検証する。
// ヘッダ欠落・形式不正・検証失敗はすべて401で中断する。
func AuthMiddleware(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			rejectUnauthorized(c, "Authorization header required")
			return
		}

		claims, err := issuer.Verify(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if err != nil {
			slog.Warn("token rejected",
				logging.WithTraceID(c.GetString(handler.TraceIDKey)),
				logging.WithEventID("STUB_AUTH_REJECT"),
				logging.WithError(err),
			)
			rejectUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(handler.EmailKey, claims.Email)
		c.Next()
	}
}

func rejectUnauthorized(c *gin.Context, detail string) {
	httputil.AbortWithError(c, httputil.Unauthorized(detail))
}
