package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities/config"
)

func TestOpenSQLiteFromURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "school.db")

	// Four slashes: the remainder is an absolute path.
	st, err := Open(context.Background(), config.DatabaseConfig{URL: "sqlite:///" + path, MaxConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Ping(context.Background()))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenRejectsUnsupportedURL(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	for _, url := range []string{"mysql://u:p@db/school", "postgresql+psycopg2://u:p@db/school"} {
		st, err := Open(context.Background(), config.DatabaseConfig{URL: url, File: "data.db"}, nil)
		assert.Error(t, err, url)
		assert.Nil(t, st, url)
	}
	_, err = os.Stat(filepath.Join(dir, "data.db"))
	assert.True(t, os.IsNotExist(err), "no fallback database file should be created")
}
