package logging

import "log/slog"

// ログフィールド名の定数
const (
	FieldTraceID    = "trace_id"
	FieldEventID    = "event_id"
	FieldError      = "error"
	FieldSrcIP      = "src_ip"
	FieldLatencyMs  = "latency_ms"
	FieldHTTPStatus = "http_status"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldEmail      = "email"
	FieldCacheKey   = "cache_key"
)

// WithTraceID はトレースIDのslog.Attrを返す。
func WithTraceID(traceID string) slog.Attr {
	return slog.String(FieldTraceID, traceID)
}

// WithEventID はイベントIDのslog.Attrを返す。
func WithEventID(eventID string) slog.Attr {
	return slog.String(FieldEventID, eventID)
}

// WithError はエラーのslog.Attrを返す。
func WithError(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// WithSrcIP はソースIPアドレスのslog.Attrを返す。
func WithSrcIP(ip string) slog.Attr {
	return slog.String(FieldSrcIP, ip)
}

// WithLatency はレイテンシ（ミリ秒）のslog.Attrを返す。
func WithLatency(ms int64) slog.Attr {
	return slog.Int64(FieldLatencyMs, ms)
}

// WithHTTPStatus はHTTPステータスコードのslog.Attrを返す。
func WithHTTPStatus(status int) slog.Attr {
	return slog.Int(FieldHTTPStatus, status)
}

// WithRequest はHTTPメソッドとパスのslog.Attrを返す。
func WithRequest(method, path string) []any {
	return []any{
		slog.String(FieldMethod, method),
		slog.String(FieldPath, path),
	}
}

// WithCacheKey はキャッシュキーのslog.Attrを返す。
func WithCacheKey(key string) slog.Attr {
	return slog.String(FieldCacheKey, key)
}

// CommonFields はマスキング設定を保持するログフィールド生成器。
type CommonFields struct {
	masker *Masker
}

// NewCommonFields は新しいCommonFieldsを生成する。
func NewCommonFields(masker *Masker) *CommonFields {
	if masker == nil {
		masker = NewMasker(false)
	}
	return &CommonFields{masker: masker}
}

// WithEmail はマスキングされたメールアドレスのslog.Attrを返す。
func (cf *CommonFields) WithEmail(email string) slog.Attr {
	return slog.String(FieldEmail, cf.masker.Email(email))
}

// SessionLogFields はセッション操作ログ用の共通フィールドを返す。
func (cf *CommonFields) SessionLogFields(eventID, email string) []any {
	return []any{
		WithEventID(eventID),
		cf.WithEmail(email),
	}
}
