package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (sqlmock.Sqlmock, func() *FavoriteRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, func() *FavoriteRepo { return NewFavoriteRepo(db) }
}

func TestToggleRemovesExistingFavorite(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectExec("DELETE FROM favorites").
		WithArgs(uint64(1), uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	liked, err := repo().Toggle(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.False(t, liked, "deleting an existing favorite unlikes it")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleAddsMissingFavorite(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectExec("DELETE FROM favorites").
		WithArgs(uint64(1), uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO favorites").
		WithArgs(uint64(1), uint64(99)).
		WillReturnResult(sqlmock.NewResult(5, 1))

	liked, err := repo().Toggle(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleToleratesConcurrentDoubleSubmit(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectExec("DELETE FROM favorites").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO favorites").
		WillReturnError(errors.New("Error 1062: Duplicate entry '1-99' for key 'uq_favorites_user_artwork'"))

	liked, err := repo().Toggle(context.Background(), 1, 99)
	require.NoError(t, err, "a racing duplicate insert still means the row exists")
	assert.True(t, liked)
}

func TestIsFavorited(t *testing.T) {
	mock, repo := newMockDB(t)

	mock.ExpectQuery("SELECT 1 FROM favorites").
		WithArgs(uint64(1), uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	got, err := repo().IsFavorited(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.True(t, got)

	mock.ExpectQuery("SELECT 1 FROM favorites").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	got, err = repo().IsFavorited(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.False(t, got)
}
