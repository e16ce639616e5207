// Package model は共有データモデルを定義する。
package model

// Session はログイン中の利用者の資格情報を表す。
// Valkeyキー: authToken, userEmail
// TTL: なし（ログアウトまたは401受信まで保持）
type Session struct {
	Email string `json:"email"` // ログイン中のメールアドレス
	Token string `json:"token"` // Bearerトークン
}

// NewSession は新しいSessionを生成する。
func NewSession(email, token string) *Session {
	return &Session{Email: email, Token: token}
}

// IsAuthenticated はトークンを保持しているかを返す。
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}
