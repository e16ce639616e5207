package session

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess, err := store.Current(ctx)
	if err != nil || sess != nil {
		t.Fatalf("Current() = %+v, %v; want nil, nil", sess, err)
	}

	_ = store.Save(ctx, "ana@escola.br", "token-1")
	sess, _ = store.Current(ctx)
	if sess == nil || sess.Token != "token-1" {
		t.Fatalf("Current() = %+v", sess)
	}

	// 返されたコピーを書き換えても保存値に影響しない
	sess.Token = "mutated"
	again, _ := store.Current(ctx)
	if again.Token != "token-1" {
		t.Errorf("Token = %q, want %q", again.Token, "token-1")
	}

	_ = store.Clear(ctx)
	_ = store.Clear(ctx)
	if sess, _ := store.Current(ctx); sess != nil {
		t.Errorf("Current() after Clear() = %+v", sess)
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, "a@b.c", "t")
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Current(ctx)
			_ = store.Clear(ctx)
		}()
	}
	wg.Wait()
}

var _ Store = (*MemoryStore)(nil)
var _ Store = (*ValkeyStore)(nil)
