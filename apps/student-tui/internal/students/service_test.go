package students

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyaguma3/student-records/apps/student-tui/internal/apiclient"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/config"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/querycache"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/session"
	"github.com/oyaguma3/student-records/pkg/apperr"
	"github.com/oyaguma3/student-records/pkg/model"
)

// fakeAPI は学生APIの最小限のテスト実装
type fakeAPI struct {
	mu       sync.Mutex
	students []model.Student
	nextID   int64
	gets     atomic.Int32
	delay    time.Duration
	failGets atomic.Int32 // 残り失敗回数
	lastBody model.CreateStudentRequest
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/alunos":
		f.gets.Add(1)
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		if f.failGets.Load() > 0 {
			f.failGets.Add(-1)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"db down"}`))
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		f.mu.Lock()
		start := (page - 1) * size
		end := start + size
		if start > len(f.students) {
			start = len(f.students)
		}
		if end > len(f.students) {
			end = len(f.students)
		}
		items := append([]model.Student(nil), f.students[start:end]...)
		total := len(f.students)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(model.NewPage(items, page, size, total))

	case r.Method == http.MethodPost && r.URL.Path == "/v1/alunos":
		var req model.CreateStudentRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "dup@escola.br" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Email já cadastrado"}`))
			return
		}
		f.mu.Lock()
		f.lastBody = req
		f.nextID++
		s := model.Student{ID: f.nextID, Nome: req.Nome, Email: req.Email, Serie: req.Serie}
		f.students = append(f.students, s)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(s)

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/v1/alunos/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/v1/alunos/"), 10, 64)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, s := range f.students {
			if s.ID == id {
				f.students = append(f.students[:i], f.students[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Aluno não encontrado"}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) seed(n int) {
	for i := 0; i < n; i++ {
		f.nextID++
		f.students = append(f.students, model.Student{
			ID:    f.nextID,
			Nome:  "Aluno " + strconv.Itoa(i+1),
			Email: "aluno" + strconv.Itoa(i+1) + "@escola.br",
			Serie: "1º ano",
		})
	}
}

func setup(t *testing.T, api *fakeAPI) *Service {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "admin@escola.br", "tok"))

	client := apiclient.NewClient(&config.Config{APIURL: server.URL, APITimeout: 2 * time.Second}, store)
	return NewService(client, nil)
}

func TestListReturnsPage(t *testing.T) {
	api := &fakeAPI{}
	api.seed(25)
	svc := setup(t, api)

	page, err := svc.List(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 25, page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(21), page.Items[0].ID)
}

func TestListRejectsInvalidParams(t *testing.T) {
	api := &fakeAPI{}
	svc := setup(t, api)

	_, err := svc.List(context.Background(), 0, 10)
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "page", ve.Field)
	assert.True(t, IsValidation(err))

	_, err = svc.List(context.Background(), 1, 0)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "size", ve.Field)
	assert.Equal(t, int32(0), api.gets.Load())
}

func TestListServesFromCache(t *testing.T) {
	api := &fakeAPI{}
	api.seed(3)
	svc := setup(t, api)
	ctx := context.Background()

	_, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.gets.Load())

	_, err = svc.List(ctx, 1, 10, querycache.WithRefetch())
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.gets.Load())
}

func TestListConcurrentCallsShareOneRequest(t *testing.T) {
	api := &fakeAPI{delay: 100 * time.Millisecond}
	api.seed(3)
	svc := setup(t, api)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := svc.List(context.Background(), 1, 10)
			assert.NoError(t, err)
			assert.Len(t, page.Items, 3)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), api.gets.Load())
}

func TestListFailureIsNotCached(t *testing.T) {
	api := &fakeAPI{}
	api.seed(2)
	api.failGets.Store(1)
	svc := setup(t, api)
	ctx := context.Background()

	_, err := svc.List(ctx, 1, 10)
	require.Error(t, err)
	assert.Equal(t, apiclient.KindServerError, apiclient.KindOf(err))

	page, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int32(2), api.gets.Load())
}

func TestCreateTrimsAndInvalidates(t *testing.T) {
	api := &fakeAPI{}
	svc := setup(t, api)
	ctx := context.Background()

	page, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	created, err := svc.Create(ctx, "  Ana Souza ", " ana@escola.br\t", " 2º ano ")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", created.Nome)
	assert.Equal(t, model.CreateStudentRequest{Nome: "Ana Souza", Email: "ana@escola.br", Serie: "2º ano"}, api.lastBody)

	entry, ok := svc.Cached(1, 10)
	require.True(t, ok)
	assert.True(t, entry.Stale)

	page, err = svc.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)
	assert.Equal(t, int32(2), api.gets.Load())
}

func TestCreateValidationErrorPassesThrough(t *testing.T) {
	api := &fakeAPI{}
	svc := setup(t, api)
	ctx := context.Background()

	_, _ = svc.List(ctx, 1, 10)
	_, err := svc.Create(ctx, "Ana", "dup@escola.br", "1º")

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Email já cadastrado", apiErr.Message)
	assert.True(t, IsValidation(err))

	// 失敗時はキャッシュを無効化しない
	entry, _ := svc.Cached(1, 10)
	assert.False(t, entry.Stale)
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{}
	api.seed(2)
	svc := setup(t, api)
	ctx := context.Background()

	_, _ = svc.List(ctx, 1, 10)
	res, err := svc.Delete(ctx, 1)
	require.NoError(t, err)
	assert.False(t, res.AlreadyGone)

	page, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Items[0].ID)
}

func TestDeleteAlreadyGoneRefreshes(t *testing.T) {
	api := &fakeAPI{}
	api.seed(1)
	svc := setup(t, api)
	ctx := context.Background()

	_, _ = svc.List(ctx, 1, 10)
	res, err := svc.Delete(ctx, 404)
	require.NoError(t, err)
	assert.True(t, res.AlreadyGone)

	entry, _ := svc.Cached(1, 10)
	assert.True(t, entry.Stale)

	_, _ = svc.List(ctx, 1, 10)
	assert.Equal(t, int32(2), api.gets.Load())
}

// stubAPI はエラーを返すだけのAPI実装
type stubAPI struct{ err error }

func (s stubAPI) Get(context.Context, string, url.Values, any) error { return s.err }
func (s stubAPI) Post(context.Context, string, any, any) error        { return s.err }
func (s stubAPI) Delete(context.Context, string) error                { return s.err }

func TestDeleteOtherErrorsDoNotInvalidate(t *testing.T) {
	cache := querycache.New[*model.Page[model.Student]]()
	ctx := context.Background()
	_, _ = cache.Get(ctx, PageKey(1, 10), func(context.Context) (*model.Page[model.Student], error) {
		return model.NewPage[model.Student](nil, 1, 10, 0), nil
	})

	boom := &apiclient.APIError{StatusCode: 500, Kind: apiclient.KindServerError}
	svc := NewService(stubAPI{err: boom}, cache)

	_, err := svc.Delete(ctx, 1)
	assert.ErrorIs(t, err, boom)

	entry, _ := svc.Cached(1, 10)
	assert.False(t, entry.Stale)
}

func TestListInvalidPageFromServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[],"page":1,"pageSize":10,"totalItems":25,"totalPages":1}`))
	}))
	defer server.Close()

	client := apiclient.NewClient(&config.Config{APIURL: server.URL, APITimeout: time.Second}, session.NewMemoryStore())
	svc := NewService(client, nil)

	_, err := svc.List(context.Background(), 1, 10)
	assert.ErrorIs(t, err, apiclient.ErrInvalidResponse)
}

func TestListEmptyReportedAsOnePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[],"page":1,"pageSize":10,"totalItems":0,"totalPages":1}`))
	}))
	defer server.Close()

	client := apiclient.NewClient(&config.Config{APIURL: server.URL, APITimeout: time.Second}, session.NewMemoryStore())
	svc := NewService(client, nil)

	page, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalItems)
}
