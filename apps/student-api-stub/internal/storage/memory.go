package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oyaguma3/student-records/pkg/apperr"
	"github.com/oyaguma3/student-records/pkg/model"
)

// MemoryStore はプロセス内に保持するStore実装。
// 再起動で内容は失われる。
type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	students []model.Student // ID昇順
	users    map[string]User // キーは小文字化したメールアドレス
}

// NewMemoryStore は新しいMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		users:  make(map[string]User),
	}
}

// CreateStudent は学生を登録する。
func (m *MemoryStore) CreateStudent(_ context.Context, req model.CreateStudentRequest) (model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := model.Student{
		ID:    m.nextID,
		Nome:  req.Nome,
		Email: req.Email,
		Serie: req.Serie,
	}
	m.nextID++
	m.students = append(m.students, st)
	return st, nil
}

// ListStudents は指定ページの学生を返す。
func (m *MemoryStore) ListStudents(_ context.Context, page, size int) ([]model.Student, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := len(m.students)
	start := offset(page, size)
	if start >= total {
		return []model.Student{}, total, nil
	}
	end := min(start+size, total)

	items := make([]model.Student, end-start)
	copy(items, m.students[start:end])
	return items, total, nil
}

// DeleteStudent は学生を削除する。
func (m *MemoryStore) DeleteStudent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, st := range m.students {
		if st.ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			return nil
		}
	}
	return apperr.ErrStudentNotFound
}

// CreateUser は利用者を登録する。
func (m *MemoryStore) CreateUser(_ context.Context, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := m.users[key]; exists {
		return apperr.ErrEmailTaken
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	m.users[key] = user
	return nil
}

// GetUser はメールアドレスで利用者を取得する。
func (m *MemoryStore) GetUser(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// Backend はBackendMemoryを返す。
func (m *MemoryStore) Backend() string {
	return BackendMemory
}

// Ping は常に成功する。
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close は何もしない。
func (m *MemoryStore) Close() error {
	return nil
}
