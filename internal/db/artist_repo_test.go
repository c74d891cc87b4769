package db

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/hallyusync/concert-sync/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistRepository_List(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "아이유").
		AddRow(int64(2), "BTS")
	mock.ExpectQuery(`SELECT id, name FROM artists ORDER BY id`).WillReturnRows(rows)

	repo := NewArtistRepository(conn, config.DialectPostgres)
	artists, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "아이유", artists[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArtistRepository_FindByName_NotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`SELECT id, name FROM artists WHERE name = \$1`).
		WithArgs("없는아티스트").
		WillReturnError(sql.ErrNoRows)

	repo := NewArtistRepository(conn, config.DialectPostgres)
	_, ok, err := repo.FindByName(context.Background(), "없는아티스트")
	require.NoError(t, err)
	assert.False(t, ok)
}
