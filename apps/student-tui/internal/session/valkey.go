package session

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/oyaguma3/student-records/pkg/apperr"
	"github.com/oyaguma3/student-records/pkg/logging"
	"github.com/oyaguma3/student-records/pkg/model"
)

// ValkeyStore はValkeyにセッションを保持するStore実装。
// authTokenとuserEmailの2キーを有効期限なしで保存する。
type ValkeyStore struct {
	client   *redis.Client
	tokenKey string
	emailKey string
	fields   *logging.CommonFields
}

// NewValkeyStore は新しいValkeyStoreを生成する。
// prefixが空でなければ各キーの先頭に付与する。
func NewValkeyStore(client *redis.Client, prefix string, fields *logging.CommonFields) *ValkeyStore {
	if fields == nil {
		fields = logging.NewCommonFields(nil)
	}
	return &ValkeyStore{
		client:   client,
		tokenKey: prefix + KeyAuthToken,
		emailKey: prefix + KeyUserEmail,
		fields:   fields,
	}
}

// Save はトークンとメールアドレスをMULTI/EXECでまとめて保存する。
func (s *ValkeyStore) Save(ctx context.Context, email, token string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey, token, 0)
		pipe.Set(ctx, s.emailKey, email, 0)
		return nil
	})
	if err != nil {
		return apperr.NewValkeyError("MULTI", s.tokenKey, err)
	}
	slog.Info("session saved", s.fields.SessionLogFields("SESSION_SAVE", email)...)
	return nil
}

// Current は保存済みのセッションを返す。
// どちらかのキーが欠けている場合は未ログインとみなす。
func (s *ValkeyStore) Current(ctx context.Context) (*model.Session, error) {
	vals, err := s.client.MGet(ctx, s.tokenKey, s.emailKey).Result()
	if err != nil {
		return nil, apperr.NewValkeyError("MGET", s.tokenKey, err)
	}

	token, _ := vals[0].(string)
	email, _ := vals[1].(string)
	if token == "" || email == "" {
		return nil, nil
	}
	return model.NewSession(email, token), nil
}

// Clear は両方のキーを削除する。
func (s *ValkeyStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.tokenKey, s.emailKey).Err(); err != nil {
		return apperr.NewValkeyError("DEL", s.tokenKey, err)
	}
	slog.Debug("session cleared", logging.WithEventID("SESSION_CLEAR"))
	return nil
}
