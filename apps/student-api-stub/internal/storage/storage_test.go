package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyaguma3/student-records/pkg/apperr"
	"github.com/oyaguma3/student-records/pkg/model"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	sqliteStore, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "stub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		BackendMemory: NewMemoryStore(),
		BackendSQLite: sqliteStore,
	}
}

func seed(t *testing.T, s Store, n int) []model.Student {
	t.Helper()
	created := make([]model.Student, 0, n)
	for i := range n {
		st, err := s.CreateStudent(context.Background(), model.CreateStudentRequest{
			Nome:  "Aluno " + string(rune('A'+i)),
			Email: "aluno" + string(rune('a'+i)) + "@example.com",
			Serie: "1A",
		})
		require.NoError(t, err)
		created = append(created, st)
	}
	return created
}

func TestCreateAndListStudents(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := seed(t, s, 5)

			assert.Equal(t, int64(1), created[0].ID)
			assert.Less(t, created[0].ID, created[1].ID)

			items, total, err := s.ListStudents(ctx, 1, 2)
			require.NoError(t, err)
			assert.Equal(t, 5, total)
			assert.Equal(t, created[:2], items)

			items, total, err = s.ListStudents(ctx, 3, 2)
			require.NoError(t, err)
			assert.Equal(t, 5, total)
			assert.Equal(t, created[4:], items)
		})
	}
}

func TestListStudentsBeyondLastPage(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s, 3)

			items, total, err := s.ListStudents(context.Background(), 5, 10)
			require.NoError(t, err)
			assert.Equal(t, 3, total)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestDeleteStudent(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := seed(t, s, 2)

			require.NoError(t, s.DeleteStudent(ctx, created[0].ID))

			items, total, err := s.ListStudents(ctx, 1, 10)
			require.NoError(t, err)
			assert.Equal(t, 1, total)
			assert.Equal(t, created[1:], items)

			err = s.DeleteStudent(ctx, created[0].ID)
			assert.ErrorIs(t, err, apperr.ErrStudentNotFound)
		})
	}
}

func TestUsers(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			user := User{Name: "Maria", Email: "maria@example.com", PasswordHash: "hash"}

			require.NoError(t, s.CreateUser(ctx, user))

			got, err := s.GetUser(ctx, "MARIA@example.com")
			require.NoError(t, err)
			assert.Equal(t, "Maria", got.Name)
			assert.Equal(t, "hash", got.PasswordHash)
			assert.False(t, got.CreatedAt.IsZero())

			err = s.CreateUser(ctx, User{Name: "Other", Email: "Maria@Example.com", PasswordHash: "x"})
			assert.ErrorIs(t, err, apperr.ErrEmailTaken)

			_, err = s.GetUser(ctx, "nobody@example.com")
			assert.ErrorIs(t, err, ErrUserNotFound)
		})
	}
}

func TestBackendAndPing(t *testing.T) {
	for name, s := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, s.Backend())
			assert.NoError(t, s.Ping(context.Background()))
		})
	}
}

func TestSQLitePingAfterClose(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(context.Background()), apperr.ErrStorage)
}
