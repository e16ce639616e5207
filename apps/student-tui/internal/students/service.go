// Package students は学生リソースの一覧・登録・削除操作を提供する。
package students

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/oyaguma3/student-records/apps/student-tui/internal/apiclient"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/querycache"
	"github.com/oyaguma3/student-records/pkg/apperr"
	"github.com/oyaguma3/student-records/pkg/logging"
	"github.com/oyaguma3/student-records/pkg/model"
)

// Resource はキャッシュ上の学生リソース名
const Resource = "students"

// APIパス
const (
	pathStudents = "/v1/alunos"
)

// API は学生操作に必要なHTTPクライアントの機能
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// DeleteResult は削除操作の結果
type DeleteResult struct {
	// AlreadyGone はサーバー上に既に存在しなかったことを示す
	AlreadyGone bool
}

// Service は学生リソース操作の実装
type Service struct {
	api   API
	cache *querycache.Cache[*model.Page[model.Student]]
}

// NewService は新しいServiceを生成する。
func NewService(api API, cache *querycache.Cache[*model.Page[model.Student]]) *Service {
	if cache == nil {
		cache = querycache.New[*model.Page[model.Student]]()
	}
	return &Service{api: api, cache: cache}
}

// PageKey は一覧ページのキャッシュキーを返す。
func PageKey(page, size int) querycache.Key {
	return querycache.NewKey(Resource, pageQuery(page, size))
}

func pageQuery(page, size int) url.Values {
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

// List は指定ページの学生一覧を返す。
// キャッシュに新鮮な結果があればリクエストは送らない。
func (s *Service) List(ctx context.Context, page, size int, opts ...querycache.GetOption) (*model.Page[model.Student], error) {
	if page < 1 {
		return nil, apperr.NewValidationError("page", "must be >= 1")
	}
	if size < 1 {
		return nil, apperr.NewValidationError("size", "must be >= 1")
	}

	return s.cache.Get(ctx, PageKey(page, size), func(ctx context.Context) (*model.Page[model.Student], error) {
		var result model.Page[model.Student]
		if err := s.api.Get(ctx, pathStudents, pageQuery(page, size), &result); err != nil {
			return nil, err
		}
		if result.Items == nil {
			result.Items = []model.Student{}
		}
		if err := result.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apiclient.ErrInvalidResponse, err)
		}
		return &result, nil
	}, opts...)
}

// Create は学生を登録する。
// 各フィールドは前後の空白を除去して送信する。
// サーバーのバリデーションエラーはそのまま返す。
func (s *Service) Create(ctx context.Context, nome, email, serie string) (*model.Student, error) {
	req := model.NewCreateStudentRequest(nome, email, serie)

	var created model.Student
	if err := s.api.Post(ctx, pathStudents, req, &created); err != nil {
		return nil, err
	}

	s.cache.Invalidate(Resource)
	slog.Info("student created",
		logging.WithEventID("STUDENT_CREATE"),
		"student_id", created.ID,
	)
	return &created, nil
}

// Delete は学生を削除する。
// 404の場合は既に削除済みとみなし、AlreadyGoneを返す。
// いずれの場合も一覧キャッシュは無効化する。
func (s *Service) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	err := s.api.Delete(ctx, pathStudents+"/"+strconv.FormatInt(id, 10))
	switch {
	case err == nil:
		s.cache.Invalidate(Resource)
		slog.Info("student deleted",
			logging.WithEventID("STUDENT_DELETE"),
			"student_id", id,
		)
		return DeleteResult{}, nil
	case apiclient.IsNotFound(err):
		s.cache.Invalidate(Resource)
		slog.Info("student already gone",
			logging.WithEventID("STUDENT_DELETE_GONE"),
			"student_id", id,
		)
		return DeleteResult{AlreadyGone: true}, nil
	default:
		return DeleteResult{}, err
	}
}

// Cached は一覧ページのキャッシュ状態を返す。
func (s *Service) Cached(page, size int) (querycache.Entry[*model.Page[model.Student]], bool) {
	return s.cache.Peek(PageKey(page, size))
}

// IsValidation はerrが入力エラーかどうかを判定する。
func IsValidation(err error) bool {
	return errors.Is(err, apperr.ErrInvalidRequest) || apiclient.KindOf(err) == apiclient.KindValidationFailed
}
