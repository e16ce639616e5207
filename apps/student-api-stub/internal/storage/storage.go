// Package storage は学生と利用者の永続化を提供する。
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/oyaguma3/student-records/pkg/model"
)

// ErrUserNotFound は利用者が存在しない場合のエラー
var ErrUserNotFound = errors.New("user not found")

// 保存先の種別
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// User は登録済み利用者を表す。
type User struct {
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Store は学生・利用者ストアのインターフェース
type Store interface {
	// CreateStudent は学生を登録し、採番済みのレコードを返す。
	CreateStudent(ctx context.Context, req model.CreateStudentRequest) (model.Student, error)
	// ListStudents はID昇順で指定ページの学生と総件数を返す。
	ListStudents(ctx context.Context, page, size int) ([]model.Student, int, error)
	// DeleteStudent は学生を削除する。存在しなければ apperr.ErrStudentNotFound。
	DeleteStudent(ctx context.Context, id int64) error

	// CreateUser は利用者を登録する。メールアドレス重複は apperr.ErrEmailTaken。
	CreateUser(ctx context.Context, user User) error
	// GetUser はメールアドレスで利用者を取得する。存在しなければ ErrUserNotFound。
	GetUser(ctx context.Context, email string) (User, error)

	// Backend は保存先の種別（BackendMemory / BackendSQLite）を返す。
	Backend() string
	// Ping は保存先が利用可能かを確認する。
	Ping(ctx context.Context) error

	Close() error
}

// offset はページ番号から読み飛ばす件数を求める。
func offset(page, size int) int {
	return (page - 1) * size
}
