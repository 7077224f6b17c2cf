package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestPostgres_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgres(db, "default")
	ctx := context.Background()
	q := regexp.QuoteMeta(`SELECT value FROM storefront_kv WHERE namespace = $1 AND key = $2`)

	mock.ExpectQuery(q).
		WithArgs("default", KeyCart).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(`[{"id":7}]`))

	v, err := s.Get(ctx, KeyCart)
	require.NoError(t, err)
	require.Equal(t, `[{"id":7}]`, v)

	mock.ExpectQuery(q).
		WithArgs("default", KeyAuthToken).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err = s.Get(ctx, KeyAuthToken)
	require.ErrorIs(t, err, ErrNotFound)

	mock.ExpectQuery(q).
		WithArgs("default", KeyUserData).
		WillReturnError(errors.New("conn reset"))

	_, err = s.Get(ctx, KeyUserData)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SetDeleteMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgres(db, "profile-a")
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS storefront_kv`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, s.Migrate(ctx))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO storefront_kv (namespace, key, value) VALUES ($1, $2, $3)`)).
		WithArgs("profile-a", KeyAuthToken, "tok").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, s.Set(ctx, KeyAuthToken, "tok"))

	del := regexp.QuoteMeta(`DELETE FROM storefront_kv WHERE namespace = $1 AND key = $2`)
	mock.ExpectExec(del).WithArgs("profile-a", KeyAuthToken).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(del).WithArgs("profile-a", KeyUserData).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, s.Delete(ctx, KeyAuthToken, KeyUserData))

	require.NoError(t, mock.ExpectationsWereMet())
}
