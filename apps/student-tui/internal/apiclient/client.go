// Package apiclient は学生APIへの唯一の送信経路となるHTTPクライアントを提供する。
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/oyaguma3/student-records/apps/student-tui/internal/config"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/session"
	"github.com/oyaguma3/student-records/pkg/logging"
)

// Client は学生APIクライアントの実装。
// リクエストごとにセッションストアから資格情報を読み、Bearerトークンを付与する。
type Client struct {
	httpClient *resty.Client
	cb         *gobreaker.CircuitBreaker
	sessions   session.Store

	mu  sync.RWMutex
	nav Navigator
}

// NewClient は新しい学生APIクライアントを生成する。
// リトライは行わない。
func NewClient(cfg *config.Config, sessions session.Store) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.APIURL).
		SetTimeout(cfg.APITimeout).
		SetRetryCount(0)

	cbSettings := gobreaker.Settings{
		Name:        config.CBName,
		MaxRequests: config.CBMaxRequests,
		Interval:    config.CBInterval,
		Timeout:     config.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.CBFailureThreshold)
		},
		IsSuccessful: func(err error) bool {
			return !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				slog.Warn("circuit breaker opened",
					"event_id", "CB_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateHalfOpen:
				slog.Info("circuit breaker half-open",
					"event_id", "CB_HALF_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateClosed:
				slog.Info("circuit breaker closed",
					"event_id", "CB_CLOSE",
					"cb_name", name,
				)
			}
		},
	}

	return &Client{
		httpClient: httpClient,
		cb:         gobreaker.NewCircuitBreaker(cbSettings),
		sessions:   sessions,
	}
}

// SetNavigator は401受信時に使うNavigatorを設定する。
// 画面はクライアントより後に生成されるため、後から差し込めるようにしている。
func (c *Client) SetNavigator(nav Navigator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nav = nav
}

func (c *Client) navigator() Navigator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nav
}

// Get はGETリクエストを送り、レスポンスをoutにデコードする。
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: resty.MethodGet, Path: path, Query: query}, out)
}

// Post はPOSTリクエストを送り、レスポンスをoutにデコードする。
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: resty.MethodPost, Path: path, Body: body}, out)
}

// Delete はDELETEリクエストを送る。
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: resty.MethodDelete, Path: path}, nil)
}

// Do はリクエストを送信する。
// 2xx以外は*APIError、タイムアウトは*TimeoutError、接続失敗は*ConnectionErrorを返す。
// 401の場合はセッションを破棄し、必要ならログイン画面へ遷移させてからエラーを返す。
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	traceID := TraceIDFrom(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
	}

	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader(HeaderTraceID, traceID).
		SetHeader(HeaderContentType, ContentTypeJSON).
		SetHeader(HeaderAccept, ContentTypeJSON)

	// 資格情報はキャッシュせず毎回読む
	sess, err := c.sessions.Current(ctx)
	if err != nil {
		slog.Warn("session read failed, sending unauthenticated",
			"event_id", "SESSION_READ_ERR",
			logging.WithTraceID(traceID),
			logging.WithError(err),
		)
	}
	if sess.IsAuthenticated() {
		req.SetHeader(HeaderAuthorization, BearerPrefix+sess.Token)
	}
	if r.Query != nil {
		req.SetQueryParamsFromValues(r.Query)
	}
	if r.Body != nil {
		req.SetBody(r.Body)
	}

	start := time.Now()
	var body []byte
	_, err = c.cb.Execute(func() (any, error) {
		resp, err := req.Execute(r.Method, r.Path)
		if err != nil {
			return nil, classifyTransportError(err)
		}
		if !resp.IsSuccess() {
			return nil, newAPIError(resp.StatusCode(), resp.Body())
		}
		body = resp.Body()
		return nil, nil
	})
	latencyMs := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = ErrCircuitOpen
		}
		c.logFailure(r, traceID, latencyMs, err)

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			c.handleUnauthorized(ctx, traceID)
		}
		return err
	}

	attrs := []any{
		"event_id", "API_REQ_OK",
		logging.WithTraceID(traceID),
		logging.WithLatency(latencyMs),
	}
	slog.Debug("student api success", append(attrs, logging.WithRequest(r.Method, r.Path)...)...)

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: json unmarshal: %v", ErrInvalidResponse, err)
	}
	return nil
}

// handleUnauthorized はセッションを破棄し、未認証向け画面以外からはログイン画面へ遷移させる。
// 呼び出し元のコンテキストが終了していても破棄は実行する。
func (c *Client) handleUnauthorized(ctx context.Context, traceID string) {
	if err := c.sessions.Clear(context.WithoutCancel(ctx)); err != nil {
		slog.Error("failed to clear session after 401",
			"event_id", "SESSION_CLEAR_ERR",
			logging.WithTraceID(traceID),
			logging.WithError(err),
		)
	}

	nav := c.navigator()
	if nav == nil {
		return
	}
	page := nav.CurrentPage()
	if IsEntryPage(page) {
		return
	}
	slog.Info("redirecting to login after 401",
		"event_id", "API_AUTH_REJECTED",
		logging.WithTraceID(traceID),
		"page", page,
	)
	nav.RedirectToLogin()
}

func (c *Client) logFailure(r Request, traceID string, latencyMs int64, err error) {
	attrs := []any{
		"event_id", "API_ERR",
		logging.WithTraceID(traceID),
		logging.WithLatency(latencyMs),
		logging.WithError(err),
		"kind", KindOf(err).String(),
	}
	attrs = append(attrs, logging.WithRequest(r.Method, r.Path)...)

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs, logging.WithHTTPStatus(apiErr.StatusCode))
		if !apiErr.IsServerError() {
			slog.Info("student api rejected request", attrs...)
			return
		}
	}
	slog.Error("student api error", attrs...)
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{
		StatusCode: status,
		Kind:       kindForStatus(status),
		Message:    extractMessage(body),
		Body:       body,
	}
}

// classifyTransportError はレスポンスを得られなかったエラーを分類する
func classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Cause: err}
	}
	return &ConnectionError{Cause: err}
}

// traceIDKey はコンテキストからTrace IDを取得するためのキー型
type traceIDKey struct{}

// WithTraceID はコンテキストにTrace IDを設定する。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFrom はコンテキストのTrace IDを返す（未設定なら空文字列）。
func TraceIDFrom(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}
