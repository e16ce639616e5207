package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/oyaguma3/student-records/pkg/apperr"
	"github.com/oyaguma3/student-records/pkg/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS students (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	nome  TEXT NOT NULL,
	email TEXT NOT NULL,
	serie TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	email         TEXT PRIMARY KEY COLLATE NOCASE,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
`

// SQLiteStore はSQLiteファイルに保存するStore実装。
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore はpathのデータベースを開き、テーブルを用意する。
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperr.ErrStorage, path, err)
	}
	// SQLiteは同時書き込みを許さないため接続は1本に絞る
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create tables: %v", apperr.ErrStorage, err)
	}
	return &SQLiteStore{db: db}, nil
}

// CreateStudent は学生を登録する。
func (s *SQLiteStore) CreateStudent(ctx context.Context, req model.CreateStudentRequest) (model.Student, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO students (nome, email, serie) VALUES (?, ?, ?)",
		req.Nome, req.Email, req.Serie,
	)
	if err != nil {
		return model.Student{}, fmt.Errorf("%w: insert student: %v", apperr.ErrStorage, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Student{}, fmt.Errorf("%w: last insert id: %v", apperr.ErrStorage, err)
	}

	return model.Student{ID: id, Nome: req.Nome, Email: req.Email, Serie: req.Serie}, nil
}

// ListStudents は指定ページの学生を返す。
func (s *SQLiteStore) ListStudents(ctx context.Context, page, size int) ([]model.Student, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: count students: %v", apperr.ErrStorage, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nome, email, serie FROM students ORDER BY id LIMIT ? OFFSET ?",
		size, offset(page, size),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: query students: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	items := make([]model.Student, 0, size)
	for rows.Next() {
		var st model.Student
		if err := rows.Scan(&st.ID, &st.Nome, &st.Email, &st.Serie); err != nil {
			return nil, 0, fmt.Errorf("%w: scan student: %v", apperr.ErrStorage, err)
		}
		items = append(items, st)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterate students: %v", apperr.ErrStorage, err)
	}
	return items, total, nil
}

// DeleteStudent は学生を削除する。
func (s *SQLiteStore) DeleteStudent(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: delete student: %v", apperr.ErrStorage, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", apperr.ErrStorage, err)
	}
	if n == 0 {
		return apperr.ErrStudentNotFound
	}
	return nil
}

// CreateUser は利用者を登録する。
func (s *SQLiteStore) CreateUser(ctx context.Context, user User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.Email, user.Name, user.PasswordHash, user.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrEmailTaken
		}
		return fmt.Errorf("%w: insert user: %v", apperr.ErrStorage, err)
	}
	return nil
}

// GetUser はメールアドレスで利用者を取得する。
func (s *SQLiteStore) GetUser(ctx context.Context, email string) (User, error) {
	var (
		user      User
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT email, name, password_hash, created_at FROM users WHERE email = ?",
		strings.TrimSpace(email),
	).Scan(&user.Email, &user.Name, &user.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("%w: query user: %v", apperr.ErrStorage, err)
	}

	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return user, nil
}

// Backend はBackendSQLiteを返す。
func (s *SQLiteStore) Backend() string {
	return BackendSQLite
}

// Ping はデータベースへの疎通を確認する。
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", apperr.ErrStorage, err)
	}
	return nil
}

// Close はデータベースを閉じる。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
