package apiclient

import (
	"encoding/json"
	"net/url"
)

// Request はClient.Doに渡すリクエスト
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// errorBody はエラーレスポンスから表示用メッセージを取り出すための構造体。
// {"message": ...} 形式とRFC 7807形式の両方を受け付ける。
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Title   string `json:"title"`
}

// extractMessage はエラーレスポンスのボディからメッセージを取り出す
func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	switch {
	case eb.Message != "":
		return eb.Message
	case eb.Detail != "":
		return eb.Detail
	default:
		return eb.Title
	}
}
