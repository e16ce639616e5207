// Package querycache は読み取り結果をキー単位で保持するクエリキャッシュを提供する。
// 同一キーへの同時読み取りは1回の取得にまとめられる。
package querycache

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/oyaguma3/student-records/pkg/logging"
)

// Status はエントリの状態
type Status int

const (
	StatusAbsent Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "absent"
	}
}

// Entry はエントリのスナップショット
type Entry[T any] struct {
	Status    Status
	Value     T
	Err       error
	Stale     bool
	UpdatedAt time.Time
}

// FetchFunc はキャッシュミス時に値を取得する関数
type FetchFunc[T any] func(ctx context.Context) (T, error)

type entry[T any] struct {
	key       Key
	status    Status
	value     T
	err       error
	gen       uint64 // Invalidateのたびに増える
	valueGen  uint64 // 現在の値を取得し始めた時点のgen
	updatedAt time.Time
}

func (e *entry[T]) fresh() bool {
	return e.status == StatusSuccess && e.valueGen == e.gen
}

// Cache はキー単位のクエリキャッシュ。
// エントリは破棄されない。
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*entry[T]
	group   singleflight.Group
}

// New は空のCacheを生成する。
func New[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]*entry[T])}
}

type getOptions struct {
	refetch bool
}

// GetOption はGetの動作を変更する
type GetOption func(*getOptions)

// WithRefetch は新鮮なエントリがあっても取得し直す。
func WithRefetch() GetOption {
	return func(o *getOptions) { o.refetch = true }
}

// Get はキーに対応する値を返す。
// 新鮮な成功エントリがあればそれを返し、無ければfetchで取得する。
// 取得中の同一キーへの呼び出しは同じ取得結果を待つ。
// ただしInvalidate後の呼び出しは、それ以前に始まった取得には合流せず新たに取得する。
// ctxが先に終了した場合はctx.Err()を返すが、取得は継続し結果はキャッシュされる。
func (c *Cache[T]) Get(ctx context.Context, key Key, fetch FetchFunc[T], opts ...GetOption) (T, error) {
	var o getOptions
	for _, opt := range opts {
		opt(&o)
	}
	k := key.String()

	c.mu.Lock()
	e, ok := c.entries[k]
	if !ok {
		e = &entry[T]{key: key}
		c.entries[k] = e
	}
	if !o.refetch && e.fresh() {
		v := e.value
		c.mu.Unlock()
		slog.Debug("cache hit", logging.WithEventID("CACHE_HIT"), logging.WithCacheKey(k))
		return v, nil
	}
	e.status = StatusPending
	gen := e.gen
	c.mu.Unlock()

	// 合流の単位はキーと世代の組
	flight := k + "#" + strconv.FormatUint(gen, 10)
	ch := c.group.DoChan(flight, func() (any, error) {
		slog.Debug("cache fetch", logging.WithEventID("CACHE_FETCH"), logging.WithCacheKey(k))
		v, err := fetch(context.WithoutCancel(ctx))
		c.complete(k, gen, v, err)
		return v, err
	})

	select {
	case res := <-ch:
		v, _ := res.Val.(T)
		return v, res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// complete は取得結果をエントリに反映する。
// 取得中にInvalidateされていれば、値は古いものとして扱われる。
// より新しい世代の値が既に入っていれば、古い世代の結果は捨てる。
func (c *Cache[T]) complete(k string, gen uint64, v T, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[k]
	if e.status == StatusSuccess && gen < e.valueGen {
		return
	}
	e.updatedAt = time.Now()
	if err != nil {
		e.status = StatusError
		e.err = err
		return
	}
	e.status = StatusSuccess
	e.value = v
	e.err = nil
	e.valueGen = gen
}

// Invalidate はresource配下の全エントリを古いものとしてマークする。
// 次回のGetで取得し直される。
func (c *Cache[T]) Invalidate(resource string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if e.key.under(resource) {
			e.gen++
			n++
		}
	}
	slog.Debug("cache invalidated",
		logging.WithEventID("CACHE_INVALIDATE"),
		"resource", resource,
		"entries", n,
	)
	return n
}

// Peek はエントリの現在の状態を返す。取得は行わない。
func (c *Cache[T]) Peek(key Key) (Entry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Entry[T]{Status: StatusAbsent}, false
	}
	return Entry[T]{
		Status:    e.status,
		Value:     e.value,
		Err:       e.err,
		Stale:     e.status == StatusSuccess && e.valueGen != e.gen,
		UpdatedAt: e.updatedAt,
	}, true
}

// Len は保持しているエントリ数を返す。
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
