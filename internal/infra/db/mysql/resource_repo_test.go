package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/safe-space/internal/domain/resources"
	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

func TestResourceRepository_ListApproved(t *testing.T) {
	db, mock := newMock(t)
	approved := true

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+resources\s+WHERE\s+1=1\s+AND\s+is_approved\s+=\s+\?`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM\s+resources\s+WHERE\s+1=1\s+AND\s+is_approved`).
		WithArgs(true, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "category", "url", "tags", "is_approved", "created_at", "updated_at"}).
			AddRow("r1", "Crisis line", "24/7", "hotlines", "https://help.example.org", []byte(`["crisis"]`), true, t0, t0))

	list, total, err := NewResourceRepository(db).List(context.Background(), domain.Filter{Approved: &approved}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, domain.CategoryHotlines, list[0].Category)
	assert.Equal(t, []string{"crisis"}, list[0].Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceRepository_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(`DELETE\s+FROM\s+resources`).WithArgs("r9").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, NewResourceRepository(db).Delete(context.Background(), "r9"), shared.ErrNotFound)
}
