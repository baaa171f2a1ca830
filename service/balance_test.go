package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartera/models"
)

func TestBalanceService_Sum(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `movements`").
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow("1234.56"))

	s := NewBalanceService()
	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	sum, err := s.Sum(1, BalanceFilter{AccountID: 5, AsOf: &asOf})
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("1234.56")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceService_Balances_Empty(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `movements`").
		WillReturnRows(sqlmock.NewRows([]string{"currency", "badge_id", "amount"}))

	s := NewBalanceService()
	rows, err := s.Balances(1, BalanceFilter{EventID: 3})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Len(t, rows, 0)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceService_AccountBalances(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "name", "currency", "type", "balance"}).
			AddRow(1, "Checking", "USD", "bank", "1500.00").
			AddRow(2, "Cash", "USD", "cash", "80.00"))

	s := NewBalanceService()
	rows, err := s.AccountBalances(1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Checking", rows[0].Name)
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromInt(1500)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceService_TypeBalances(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "name", "currency", "type", "balance"}).
			AddRow(1, "Checking", "USD", "bank", "1500.00").
			AddRow(2, "Payroll", "USD", "bank", "500.00").
			AddRow(3, "Cash", "USD", "cash", "80.00").
			AddRow(4, "Cuenta", "COP", "bank", "420000.00"))

	s := NewBalanceService()
	rows, err := s.TypeBalances(1)
	require.NoError(t, err)

	// per-type rows first, then one total row per currency
	require.Len(t, rows, 5)
	assert.Equal(t, "bank", rows[0].Type)
	assert.Equal(t, "USD", rows[0].Currency)
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, "cash", rows[1].Type)
	assert.True(t, rows[1].Balance.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, "bank", rows[2].Type)
	assert.Equal(t, "COP", rows[2].Currency)

	assert.Equal(t, models.TypeBalanceTotal, rows[3].Type)
	assert.Equal(t, "USD", rows[3].Currency)
	assert.True(t, rows[3].Balance.Equal(decimal.NewFromInt(2080)))
	assert.Equal(t, models.TypeBalanceTotal, rows[4].Type)
	assert.Equal(t, "COP", rows[4].Currency)
	assert.True(t, rows[4].Balance.Equal(decimal.NewFromInt(420000)))
	require.NoError(t, mock.ExpectationsWereMet())
}
