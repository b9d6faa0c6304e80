package sqlite

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_Ordered(t *testing.T) {
	fsys := fstest.MapFS{
		"schema/010_later.sql": {Data: []byte("SELECT 1;")},
		"schema/002_next.sql":  {Data: []byte("SELECT 2;")},
		"schema/001_first.sql": {Data: []byte("SELECT 3;")},
	}

	got, err := loadMigrations(fsys)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{got[0].version, got[1].version, got[2].version})
	assert.Equal(t, "001_first.sql", got[0].name)
}

func TestLoadMigrations_BadName(t *testing.T) {
	_, err := loadMigrations(fstest.MapFS{"schema/initial.sql": {Data: []byte("")}})
	assert.ErrorContains(t, err, "missing version prefix")

	_, err = loadMigrations(fstest.MapFS{"schema/abc_initial.sql": {Data: []byte("")}})
	assert.Error(t, err)
}

func TestMigrate_TracksUserVersion(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, 1, version)

	extra := fstest.MapFS{
		"schema/001_initial.sql": {Data: []byte("CREATE TABLE never_run (x INTEGER);")},
		"schema/002_notes.sql":   {Data: []byte("CREATE TABLE notes (body TEXT);")},
	}
	require.NoError(t, store.migrate(ctx, extra))
	require.NoError(t, store.migrate(ctx, extra))

	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, 2, version)

	_, err := store.db.ExecContext(ctx, "INSERT INTO notes (body) VALUES ('ok')")
	assert.NoError(t, err)
	_, err = store.db.ExecContext(ctx, "SELECT x FROM never_run")
	assert.Error(t, err)
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	err := store.migrate(ctx, fstest.MapFS{
		"schema/005_broken.sql": {Data: []byte("CREATE TABLE half (x INTEGER); NOT SQL;")},
	})
	require.ErrorContains(t, err, "005_broken.sql")

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, 1, version)
}
