package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateReturnsExistingID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewArtworkTypeRepo(db)

	// On conflict MySQL reports the existing row's ID via LAST_INSERT_ID.
	mock.ExpectExec("INSERT INTO artwork_types").
		WithArgs("Painting").
		WillReturnResult(sqlmock.NewResult(7, 0))

	id, err := repo.GetOrCreate(context.Background(), "Painting")
	require.NoError(t, err)
	assert.EqualValues(t, 7, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewArtworkTypeRepo(db)

	mock.ExpectQuery("SELECT id, name FROM artwork_types ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(2), "Painting").
			AddRow(int64(1), "Print"))

	types, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Painting", types[0].Name)
	assert.Equal(t, "Print", types[1].Name)
}
