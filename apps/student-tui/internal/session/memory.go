package session

import (
	"context"
	"sync"

	"github.com/oyaguma3/student-records/pkg/model"
)

// MemoryStore はプロセス内にのみセッションを保持するStore実装。
// 再起動で失われるため、SESSION_BACKEND=memory 指定時とテストでのみ使う。
type MemoryStore struct {
	mu      sync.RWMutex
	session *model.Session
}

// NewMemoryStore は空のMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save はセッションを保存する。
func (m *MemoryStore) Save(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = model.NewSession(email, token)
	return nil
}

// Current は保存済みセッションのコピーを返す。
func (m *MemoryStore) Current(_ context.Context) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

// Clear はセッションを破棄する。
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
