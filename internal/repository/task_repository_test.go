package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB returns a gorm handle over a sqlmock connection, so the SQL
// the repository emits can be asserted without a live server.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return db, mock
}

func TestSoftDeleteFlagsRowInPlace(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(`UPDATE "tasks" SET "is_soft_deleted"=.+ WHERE id = .+`).
		WithArgs(true, sqlmock.AnyArg(), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SoftDelete(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHardDeleteErasesRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(`DELETE FROM "tasks" WHERE "tasks"\."id" = .+`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.HardDelete(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByProjectKeepsSoftDeletedRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	// No is_soft_deleted filter: inert rows still reach the board.
	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE project_id = .+ ORDER BY created_at DESC`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "is_soft_deleted", "project_id"}).
			AddRow(2, "Old", true, 3).
			AddRow(1, "Deploy", false, 3))

	tasks, err := repo.ListByProject(3)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].IsSoftDeleted)
	assert.False(t, tasks[1].IsSoftDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
