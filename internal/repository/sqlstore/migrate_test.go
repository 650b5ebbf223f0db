package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUpAndDown(t *testing.T) {
	ctx := context.Background()
	opts := Options{DSN: filepath.Join(t.TempDir(), "board.db")}

	versions, err := MigrateUp(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, versions)

	// Idempotent
	versions, err = MigrateUp(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, versions)

	// The migrated file opens without running migrations again
	opts.Migrate = false
	store, err := Open(ctx, opts)
	require.NoError(t, err)
	assert.True(t, store.Schema().HasStatus())
	require.NoError(t, store.Close())

	version, err := MigrateDown(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 4, version)
}

func TestMigrateUp_BadDSN(t *testing.T) {
	_, err := MigrateUp(context.Background(), Options{DSN: filepath.Join(t.TempDir(), "missing", "board.db")})
	assert.Error(t, err)
}
