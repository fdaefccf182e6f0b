package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwgops/pospay/internal/domain"
)

func newTestStore(t *testing.T) (*AccountStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewAccountStore(mock), mock
}

func TestGetAccount(t *testing.T) {
	s, mock := newTestStore(t)
	first := "Jane"
	mock.ExpectQuery("SELECT acct, last, first, inactive, balance, email FROM account").
		WithArgs(int64(12345)).
		WillReturnRows(pgxmock.NewRows([]string{"acct", "last", "first", "inactive", "balance", "email"}).
			AddRow(int64(12345), "Smith", &first, false, "100.00", nil))

	a, err := s.GetAccount(context.Background(), 12345)

	require.NoError(t, err)
	assert.Equal(t, int64(12345), a.Acct)
	assert.Equal(t, "Smith", a.LastName)
	require.NotNil(t, a.First)
	assert.Equal(t, "Jane", *a.First)
	assert.True(t, a.Balance.Equal(decimal.New(10000, -2)))
	assert.Nil(t, a.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAccountMissing(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("SELECT acct, last, first, inactive, balance, email FROM account").
		WithArgs(int64(99999)).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetAccount(context.Background(), 99999)

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestSearchAccounts(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("SELECT acct, last, first, inactive, balance, email FROM account").
		WithArgs("smi").
		WillReturnRows(pgxmock.NewRows([]string{"acct", "last", "first", "inactive", "balance", "email"}).
			AddRow(int64(12345), "Smith", nil, false, "100.00", nil).
			AddRow(int64(12346), "Smithers", nil, true, "0.00", nil))

	accounts, err := s.SearchAccounts(context.Background(), "smi")

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Smith", accounts[0].LastName)
	assert.True(t, accounts[1].Inactive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAccountsEmptyResult(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("SELECT acct, last, first, inactive, balance, email FROM account").
		WithArgs("zzz").
		WillReturnRows(pgxmock.NewRows([]string{"acct", "last", "first", "inactive", "balance", "email"}))

	accounts, err := s.SearchAccounts(context.Background(), "zzz")

	require.NoError(t, err)
	assert.Empty(t, accounts)
}
