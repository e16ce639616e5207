// Package audit は監査ログ機能を提供する。
package audit

import (
	"encoding/json"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/oyaguma3/student-records/pkg/logging"
)

// Operation は監査ログの操作種別を表す。
type Operation string

const (
	OpCreate   Operation = "create"
	OpDelete   Operation = "delete"
	OpLogin    Operation = "login"
	OpLogout   Operation = "logout"
	OpRegister Operation = "register"
)

// TargetType は監査ログの対象種別を表す。
type TargetType string

const (
	// TargetStudent は学生レコード
	TargetStudent TargetType = "student"
	// TargetSession はログインセッション
	TargetSession TargetType = "session"
	// TargetUser は利用者アカウント
	TargetUser TargetType = "user"
)

// Entry は監査ログエントリを表す。
type Entry struct {
	Time       string     `json:"time"`              // RFC3339形式のタイムスタンプ
	Level      string     `json:"level"`             // ログレベル（常に"INFO"）
	App        string     `json:"app"`               // アプリケーション名（常に"student-tui"）
	EventID    string     `json:"event_id"`          // イベントID（常に"AUDIT_LOG"）
	Msg        string     `json:"msg"`               // メッセージ
	Operation  Operation  `json:"operation"`         // 操作種別
	TargetType TargetType `json:"target_type"`       // 対象種別
	TargetKey  string     `json:"target_key"`        // 対象キー（学生IDまたはメールアドレス）
	Actor      string     `json:"actor"`             // 操作者
	Details    string     `json:"details,omitempty"` // 追加詳細情報
}

// Logger は監査ログを出力する。
type Logger struct {
	writer io.Writer
	actor  string
	masker *logging.Masker
	mu     sync.Mutex
}

// NewLogger は新しいLoggerを生成する。
// actorはログイン前やセッション不明時の操作者名として使う。
func NewLogger(writer io.Writer, actor string, masker *logging.Masker) *Logger {
	if masker == nil {
		masker = logging.NewMasker(false)
	}
	return &Logger{writer: writer, actor: actor, masker: masker}
}

// SetActor は操作者名を差し替える（ログイン・ログアウト時）。
func (l *Logger) SetActor(actor string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actor = actor
}

func (l *Logger) log(op Operation, targetType TargetType, targetKey, msg, details string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		Time:       time.Now().UTC().Format(time.RFC3339),
		Level:      "INFO",
		App:        "student-tui",
		EventID:    "AUDIT_LOG",
		Msg:        msg,
		Operation:  op,
		TargetType: targetType,
		TargetKey:  targetKey,
		Actor:      l.masker.Email(l.actor),
		Details:    details,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = l.writer.Write(append(data, '\n'))
}

// LogStudentCreate は学生登録のログを出力する。
func (l *Logger) LogStudentCreate(id int64) {
	l.log(OpCreate, TargetStudent, strconv.FormatInt(id, 10), "student created", "")
}

// LogStudentDelete は学生削除のログを出力する。
// alreadyGoneの場合はサーバー上に存在しなかったことを詳細に残す。
func (l *Logger) LogStudentDelete(id int64, alreadyGone bool) {
	details := ""
	if alreadyGone {
		details = "already gone"
	}
	l.log(OpDelete, TargetStudent, strconv.FormatInt(id, 10), "student deleted", details)
}

// LogLogin はログインのログを出力する。
func (l *Logger) LogLogin(email string) {
	l.SetActor(email)
	l.log(OpLogin, TargetSession, l.masker.Email(email), "user logged in", "")
}

// LogLogout はログアウトのログを出力する。
// sessionExpiredの場合は401によるセッション破棄であることを残す。
func (l *Logger) LogLogout(email string, sessionExpired bool) {
	details := ""
	if sessionExpired {
		details = "session rejected by server"
	}
	l.log(OpLogout, TargetSession, l.masker.Email(email), "user logged out", details)
}

// LogRegister は利用者登録のログを出力する。
func (l *Logger) LogRegister(email string) {
	l.log(OpRegister, TargetUser, l.masker.Email(email), "user registered", "")
}
