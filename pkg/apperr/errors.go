// Package apperr は共通エラー定義を提供する。
package apperr

import "errors"

// 認証関連エラー
var (
	// ErrEmailTaken は登録済みメールアドレスでの登録エラー
	ErrEmailTaken = errors.New("email already registered")
	// ErrTokenInvalid はトークン検証失敗エラー
	ErrTokenInvalid = errors.New("invalid token")
)

// 学生関連エラー
var (
	// ErrStudentNotFound は学生が見つからない場合のエラー
	ErrStudentNotFound = errors.New("student not found")
)

// インフラ関連エラー
var (
	// ErrValkeyConnection はValkey接続エラー
	ErrValkeyConnection = errors.New("valkey connection error")
	// ErrValkeyCommand はValkeyコマンド実行エラー
	ErrValkeyCommand = errors.New("valkey command error")
	// ErrStorage はスタブAPIのストレージエラー
	ErrStorage = errors.New("storage error")
)

// バリデーション関連エラー
var (
	// ErrInvalidRequest は不正なリクエストエラー
	ErrInvalidRequest = errors.New("invalid request")
)
