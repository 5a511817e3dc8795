// Package migrations embeds the schema for each supported SQL dialect and
// applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed mysql/*.sql postgres/*.sql
var FS embed.FS

// Migrate applies all pending migrations for dialect ("mysql" or "postgres").
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	switch dialect {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}

	goose.SetBaseFS(FS)
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dialect)
}
