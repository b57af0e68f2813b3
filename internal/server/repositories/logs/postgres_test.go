package logs

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dsalog/internal/common"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

const (
	insertQ = `(?s)^\s*INSERT\s+INTO\s+logs\s*\(user_id,.*NULLIF\(\$3,\s*''\),\s*\$4::jsonb.*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	listQ   = `(?s)^\s*SELECT\s+id,.*FROM\s+logs\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s*$`
	updateQ = `(?s)^\s*UPDATE\s+logs\s+SET.*WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+RETURNING\s+created_at,\s*updated_at\s*$`
	deleteQ = `^DELETE\s+FROM\s+logs\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`
)

func sampleEntry() *models.LogEntry {
	return &models.LogEntry{
		UserID:      "u-1",
		ProblemName: "Two Sum",
		ProblemLink: "https://leetcode.com/problems/two-sum/",
		Topics:      []string{"arrays", "hashing"},
		Difficulty:  models.DifficultyEasy,
		Status:      models.StatusCompleted,
		Notes:       "map",
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()
	e := sampleEntry()

	mock.ExpectQuery(insertQ).
		WithArgs("u-1", "Two Sum", e.ProblemLink, `["arrays","hashing"]`, "Easy", "Completed", "map").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("l-1", now, now))

	got, err := repo.Create(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, "l-1", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateLink(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: linkConstraint})

	_, err := repo.Create(context.Background(), sampleEntry())
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	t1 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)

	cols := []string{"id", "user_id", "problem_name", "problem_link", "topics", "difficulty", "status", "notes", "created_at", "updated_at"}
	mock.ExpectQuery(listQ).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("l-2", "u-1", "Valid Anagram", nil, []byte(`["strings"]`), "Easy", "Not Started", "", t1, t1).
			AddRow("l-1", "u-1", "Two Sum", "https://x.io/1", []byte(`["arrays"]`), "Easy", "Completed", "n", t0, t0))

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "l-2", got[0].ID)
	assert.Equal(t, "", got[0].ProblemLink)
	assert.Equal(t, []string{"strings"}, got[0].Topics)
	assert.Equal(t, "https://x.io/1", got[1].ProblemLink)
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListByUser_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQ).WithArgs("u-1").WillReturnError(errors.New("boom"))

	_, err := repo.ListByUser(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()
	e := sampleEntry()
	e.ID = "l-1"

	mock.ExpectQuery(updateQ).
		WithArgs("l-1", "u-1", "Two Sum", e.ProblemLink, `["arrays","hashing"]`, "Easy", "Completed", "map").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	got, err := repo.Update(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, now, got.UpdatedAt)
}

func TestUpdate_NotFoundAndDuplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	e := sampleEntry()
	e.ID = "l-9"

	mock.ExpectQuery(updateQ).WillReturnError(sql.ErrNoRows)
	_, err := repo.Update(context.Background(), e)
	require.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(updateQ).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: linkConstraint})
	_, err = repo.Update(context.Background(), e)
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(deleteQ).WithArgs("l-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "u-1", "l-1"))

	mock.ExpectExec(deleteQ).WithArgs("l-1", "u-2").WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, repo.Delete(context.Background(), "u-2", "l-1"), common.ErrorNotFound)

	mock.ExpectExec(deleteQ).WithArgs("l-1", "u-1").WillReturnError(errors.New("down"))
	err := repo.Delete(context.Background(), "u-1", "l-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
