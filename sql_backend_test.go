package usermode

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLBackend(t *testing.T, path string) *SQLBackend {
	t.Helper()
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	b, err := NewSQLBackend(context.Background(), db)
	require.NoError(t, err)
	return b
}

func TestSQLBackend_EmptyDatabase(t *testing.T) {
	b := setupSQLBackend(t, filepath.Join(t.TempDir(), "modes.db"))

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, ErrTableNotExist)
}

func TestSQLBackend_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	b := setupSQLBackend(t, filepath.Join(t.TempDir(), "modes.db"))

	require.NoError(t, b.Save(ctx, map[string]string{}))
	table, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, table)

	require.NoError(t, b.Save(ctx, map[string]string{"42": "real-time", "7": "background"}))
	table, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"42": "real-time", "7": "background"}, table)

	require.NoError(t, b.Save(ctx, map[string]string{"7": "real-time"}))
	table, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"7": "real-time"}, table)
}

func TestSQLBackend_Store(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "modes.db")

	s, err := NewStore(ctx, setupSQLBackend(t, path))
	require.NoError(t, err)

	m, err := s.Toggle(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, RealTime, m)

	reopened, err := NewStore(ctx, setupSQLBackend(t, path))
	require.NoError(t, err)
	assert.Equal(t, RealTime, reopened.GetMode("42"))
	assert.Equal(t, Background, reopened.GetMode("43"))
}

func TestSQLBackend_SaveLargeTable(t *testing.T) {
	ctx := context.Background()
	b := setupSQLBackend(t, filepath.Join(t.TempDir(), "modes.db"))

	table := make(map[string]string, 12000)
	for i := 0; i < 12000; i++ {
		mode := string(Background)
		if i%2 == 0 {
			mode = string(RealTime)
		}
		table[fmt.Sprintf("user-%d", i)] = mode
	}

	require.NoError(t, b.Save(ctx, table))

	loaded, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded, 12000)
	assert.Equal(t, "real-time", loaded["user-0"])
	assert.Equal(t, "background", loaded["user-11999"])
}
