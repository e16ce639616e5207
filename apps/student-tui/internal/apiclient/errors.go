package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// センチネルエラー
var (
	// ErrCircuitOpen はCircuit BreakerがOpen状態の場合のエラー
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrInvalidResponse は学生APIからのレスポンスが不正な場合のエラー
	ErrInvalidResponse = errors.New("invalid response from student API")
)

// Kind はエラーの分類
type Kind int

const (
	KindUnknown Kind = iota
	KindNetworkTimeout
	KindAuthenticationRejected
	KindNotFound
	KindValidationFailed
	KindServerError
)

func (k Kind) String() string {
	switch k {
	case KindNetworkTimeout:
		return "NetworkTimeout"
	case KindAuthenticationRejected:
		return "AuthenticationRejected"
	case KindNotFound:
		return "NotFound"
	case KindValidationFailed:
		return "ValidationFailed"
	case KindServerError:
		return "ServerError"
	default:
		return "Unknown"
	}
}

// kindForStatus はHTTPステータスコードからKindを決める
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthenticationRejected
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServerError
	case status >= 400:
		return KindValidationFailed
	default:
		return KindUnknown
	}
}

// APIError は2xx以外のHTTPレスポンスを表す
type APIError struct {
	StatusCode int
	Kind       Kind
	Message    string // サーバーが返した表示用メッセージ（無ければ空）
	Body       []byte // レスポンスボディそのもの
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("student api error: %d %s: %s", e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("student api error: %d %s", e.StatusCode, e.Kind)
}

// IsNotFound は404かどうかを判定する
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized は401かどうかを判定する
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsServerError はサーバーエラーかどうかを判定する
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// TimeoutError はリクエストがタイムアウトしたことを表す
type TimeoutError struct {
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Cause)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ConnectionError は接続エラーを表す
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// KindOf は任意のエラーを分類する
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return KindNetworkTimeout
	}
	if errors.Is(err, ErrCircuitOpen) {
		return KindServerError
	}
	return KindUnknown
}

// IsNotFound はerrが404応答かどうかを判定する
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// UserMessage はサーバーのメッセージがあればそれを、無ければfallbackを返す
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// countsAsFailure はCircuit Breakerの失敗として数えるかを判定する。
// 接続エラー、タイムアウト、5xxのみが対象。
func countsAsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsServerError()
	}
	return true
}
