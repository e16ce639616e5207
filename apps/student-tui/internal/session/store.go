// Package session はログイン中の資格情報を永続化するセッションストアを提供する。
package session

//go:generate mockgen -source=store.go -destination=../mocks/mock_session.go -package=mocks

import (
	"context"

	"github.com/oyaguma3/student-records/pkg/model"
)

// Valkeyキー
const (
	KeyAuthToken = "authToken"
	KeyUserEmail = "userEmail"
)

// Store は現在のセッションへのアクセスを定義する
type Store interface {
	// Save はセッションを保存する（既存のセッションは上書き）
	Save(ctx context.Context, email, token string) error
	// Current は現在のセッションを返す（未ログイン時はnilとnilを返す）
	Current(ctx context.Context) (*model.Session, error)
	// Clear はセッションを破棄する（未ログイン時も成功する）
	Clear(ctx context.Context) error
}
