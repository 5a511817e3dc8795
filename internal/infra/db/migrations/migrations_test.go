package migrations

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDialects(t *testing.T) {
	for _, dir := range []string{"mysql", "postgres"} {
		files, err := fs.Glob(FS, dir+"/*.sql")
		require.NoError(t, err)
		assert.NotEmpty(t, files, dir)

		body, err := fs.ReadFile(FS, files[0])
		require.NoError(t, err)
		assert.Contains(t, string(body), "CREATE TABLE scan_records")
		assert.Contains(t, string(body), "-- +goose Down")
	}
}

func TestMigrate_UnsupportedDialect(t *testing.T) {
	err := Migrate(context.Background(), nil, "sqlite3")
	assert.ErrorContains(t, err, "unsupported dialect")
}
