package migrations_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/user-api/migrations"
)

func TestSource_LayoutPerDialect(t *testing.T) {
	for _, dialect := range []string{"sqlite3", "postgres", "mysql"} {
		t.Run(dialect, func(t *testing.T) {
			src, err := migrations.Source(dialect)
			require.NoError(t, err)

			names, err := fs.Glob(src, "*.sql")
			require.NoError(t, err)
			assert.Equal(t, []string{
				"000001_create_users.down.sql",
				"000001_create_users.up.sql",
			}, names)
		})
	}
}

func TestSource_UnknownDialect(t *testing.T) {
	_, err := migrations.Source("oracle")
	assert.Error(t, err)
}

func TestUpSQL(t *testing.T) {
	ddl, err := migrations.UpSQL("sqlite3")
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, ddl, "AUTOINCREMENT")

	ddl, err = migrations.UpSQL("postgres")
	require.NoError(t, err)
	assert.Contains(t, ddl, "BIGSERIAL")
}
