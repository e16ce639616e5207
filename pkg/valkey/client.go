package valkey

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/redis/go-redis/v9"

	"github.com/oyaguma3/student-records/pkg/apperr"
)

// NewClient は新しいValkeyクライアントを生成する。
// 接続確認のためPINGを実行し、失敗した場合は apperr.ErrValkeyConnection を返す。
func NewClient(ctx context.Context, opts *Options) (*redis.Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DialTimeout:  opts.ConnectTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
	})

	if err := ping(ctx, client, opts); err != nil {
		return nil, err
	}
	return client, nil
}

// NewClientFromURL は redis:// 形式のURLからクライアントを生成する。
// URLで指定されないタイムアウト類はoptsの値を使う。
func NewClientFromURL(ctx context.Context, rawURL string, opts *Options) (*redis.Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	ro, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url: %v", apperr.ErrValkeyConnection, err)
	}
	ro.DialTimeout = opts.ConnectTimeout
	ro.ReadTimeout = opts.ReadTimeout
	ro.WriteTimeout = opts.WriteTimeout
	ro.PoolSize = opts.PoolSize
	ro.MinIdleConns = opts.MinIdleConns

	client := redis.NewClient(ro)
	if err := ping(ctx, client, opts); err != nil {
		return nil, err
	}
	return client, nil
}

func ping(ctx context.Context, client *redis.Client, opts *Options) error {
	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("%w: %v", apperr.ErrValkeyConnection, err)
	}
	return nil
}

// IsConnectionError は接続関連のエラーかどうかを判定する。
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, apperr.ErrValkeyConnection) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
