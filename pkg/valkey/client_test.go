package valkey

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/oyaguma3/student-records/pkg/apperr"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewClient(ctx, DefaultOptions().WithAddr(mr.Addr()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	if err := client.Set(ctx, "authToken", "tok", 0).Err(); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := client.Get(ctx, "authToken").Result()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "tok" {
		t.Errorf("Get() = %q, want %q", got, "tok")
	}
}

func TestNewClientNilOptions(t *testing.T) {
	// nilの場合はDefaultOptions（localhost:6379）が使われる。
	// 接続可否は環境依存なので、パニックしないことのみ確認する。
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	client, err := NewClient(ctx, nil)
	if err == nil {
		client.Close()
	}
}

func TestNewClientWithPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")
	ctx := context.Background()

	if _, err := NewClient(ctx, DefaultOptions().WithAddr(mr.Addr())); err == nil {
		t.Error("NewClient() without password should fail")
	}

	client, err := NewClient(ctx, DefaultOptions().WithAddr(mr.Addr()).WithPassword("s3cret"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.Close()
}

func TestNewClientConnectionError(t *testing.T) {
	opts := DefaultOptions().
		WithAddr("127.0.0.1:59999").
		WithTimeouts(100*time.Millisecond, 100*time.Millisecond, 100*time.Millisecond)

	_, err := NewClient(context.Background(), opts)
	if err == nil {
		t.Fatal("NewClient() should return error for unreachable address")
	}
	if !errors.Is(err, apperr.ErrValkeyConnection) {
		t.Errorf("error should wrap ErrValkeyConnection: %v", err)
	}
	if !IsConnectionError(err) {
		t.Error("IsConnectionError() should be true")
	}
}

func TestNewClientFromURL(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewClientFromURL(ctx, fmt.Sprintf("redis://%s/0", mr.Addr()), nil)
	if err != nil {
		t.Fatalf("NewClientFromURL() error = %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	if _, err := NewClientFromURL(ctx, "http://not-redis", nil); !errors.Is(err, apperr.ErrValkeyConnection) {
		t.Errorf("invalid scheme should wrap ErrValkeyConnection: %v", err)
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, true},
		{"wrapped sentinel", fmt.Errorf("%w: boom", apperr.ErrValkeyConnection), true},
		{"redis.Nil", redis.Nil, false},
		{"other", errors.New("other"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectionError(tt.err); got != tt.want {
				t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
