package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/chamanguitech/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add payment index", "add_payment_index"},
		{"Add-Payment-Index", "add_payment_index"},
		{"ADD__PAYMENT__INDEX", "add_payment_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration_NumbersSequentially(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000004_seed.up.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000004_seed.down.sql"), []byte("--"), 0o644))

	mf, err := CreateMigration(dir, "Add payment index")
	require.NoError(t, err)
	assert.Equal(t, uint(5), mf.Version)
	assert.Equal(t, filepath.Join(dir, "000005_add_payment_index.up.sql"), mf.UpPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Add payment index")
	_, err = os.Stat(mf.DownPath)
	assert.NoError(t, err)
}

func TestCreateMigration_Rejections(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!")
	assert.Error(t, err)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")
	mf, err := CreateMigration(dir, "init")
	require.NoError(t, err)
	assert.Equal(t, uint(1), mf.Version)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_sales.up.sql":    {},
		"000002_sales.down.sql":  {},
		"000001_init.up.sql":     {},
		"000010_backfill.up.sql": {},
		"README.md":              {},
		"notes.sql":              {},
		"abc_bad.up.sql":         {},
		"subdir.up.sql/file.sql": {},
	}

	list, err := ListMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, Migration{Version: 1, Name: "init"}, list[0])
	assert.Equal(t, Migration{Version: 2, Name: "sales", HasDown: true}, list[1])
	assert.Equal(t, uint(10), list[2].Version)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	list, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	list, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	for i, m := range list {
		assert.Equal(t, uint(i+1), m.Version, "versions are contiguous")
		assert.True(t, m.HasDown, "migration %d has a down file", m.Version)
	}
}
