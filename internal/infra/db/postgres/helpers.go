package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/bryanwahyu/safe-space/internal/domain/shared"
	"github.com/bryanwahyu/safe-space/internal/infra/db"
)

const uniqueViolation = "23505"

// classify maps driver errors onto the shared repository errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return shared.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", shared.ErrConflict, pqErr.Detail)
		}
		// class 08: connection exception, 57P: operator intervention (shutdown)
		if pqErr.Code.Class() == "08" || pqErr.Code.Class() == "57" {
			return db.Unavailable(err)
		}
		return err
	}
	if db.IsConnectivity(err) {
		return db.Unavailable(err)
	}
	return err
}

// args collects positional arguments and hands out $n placeholders.
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// nonNil keeps TEXT[] columns from scanning as null slices.
func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
