package localstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classdash/core/internal/adapters/repository"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/logger"
)

type brokenKV struct{ repository.MemoryStore }

func (b *brokenKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func TestGetReturnsDefault(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryStore()
	s := New(kv, logger.NewNop())
	def := entities.DefaultUserSettings()

	tests := []struct {
		name string
		raw  *string
	}{
		{name: "missing"},
		{name: "empty", raw: strPtr("")},
		{name: "null", raw: strPtr("null")},
		{name: "corrupt", raw: strPtr("{classId:")},
		{name: "wrong type", raw: strPtr(`["21HR"]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, kv.Remove(ctx, entities.KeyUserSettings))
			if tt.raw != nil {
				require.NoError(t, kv.Set(ctx, entities.KeyUserSettings, *tt.raw))
			}
			assert.Equal(t, def, Get(ctx, s, entities.KeyUserSettings, def))
		})
	}
}

func TestGetReturnsDefaultOnStoreError(t *testing.T) {
	s := New(&brokenKV{}, logger.NewNop())
	got := Get(context.Background(), s, entities.KeyTodos, []entities.TodoItem{})
	assert.Empty(t, got)
}

func TestSetThenGet(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryStore()
	s := New(kv, logger.NewNop())

	creds := entities.RepoCredentials{Owner: "school", Repo: "dash", Token: "ghp_x"}
	require.NoError(t, s.Set(ctx, entities.KeyRepoCredentials, creds))

	raw, found, err := kv.Get(ctx, entities.KeyRepoCredentials)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"user":"school","repo":"dash","token":"ghp_x"}`, raw)

	assert.Equal(t, creds, Get(ctx, s, entities.KeyRepoCredentials, entities.RepoCredentials{}))

	require.NoError(t, s.Remove(ctx, entities.KeyRepoCredentials))
	assert.Equal(t, entities.RepoCredentials{}, Get(ctx, s, entities.KeyRepoCredentials, entities.RepoCredentials{}))
}

func strPtr(s string) *string { return &s }
