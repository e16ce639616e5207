package ui

import (
	"errors"

	"github.com/oyaguma3/student-records/apps/student-tui/internal/apiclient"
	"github.com/oyaguma3/student-records/pkg/apperr"
)

// 画面に表示する共通メッセージ
const (
	MsgTimeout        = "The server did not respond in time. Please try again."
	MsgSessionExpired = "Your session has expired. Please sign in again."
	MsgUnavailable    = "The server is temporarily unavailable. Please try again later."
)

// Describe はエラーを利用者向けのメッセージに変換する。
// サーバーがメッセージを返していればそれを優先し、無ければfallbackを使う。
func Describe(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var vErr *apperr.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Field + " " + vErr.Message
	}
	if errors.Is(err, apiclient.ErrCircuitOpen) {
		return MsgUnavailable
	}

	switch apiclient.KindOf(err) {
	case apiclient.KindNetworkTimeout:
		return MsgTimeout
	case apiclient.KindAuthenticationRejected:
		return apiclient.UserMessage(err, MsgSessionExpired)
	default:
		return apiclient.UserMessage(err, fallback)
	}
}
