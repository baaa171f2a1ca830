package service

import (
	"errors"
	"testing"
	"time"

	"cartera/apperr"
	"cartera/config"
	"cartera/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func initReportTestConfig() {
	config.GlobalConfig = &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		Report: config.ReportConfig{TransferGroupID: 1, ReservedGroupMaxID: 2},
	}
}

func TestTransferService_Create_Validation(t *testing.T) {
	initReportTestConfig()
	defer func() { config.GlobalConfig = nil }()

	s := NewTransferService()
	date := time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC)

	// same account on both ends: rejected before touching the store
	_, _, err := s.Create(1, TransferInput{
		AccountID: 5, AccountEndID: 5,
		Amount: decimal.NewFromInt(100), DatePurchase: date,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	var e *apperr.Error
	require.True(t, errors.As(err, &e))
	assert.Contains(t, e.Detail, "account_end_id")

	// zero amount
	_, _, err = s.Create(1, TransferInput{
		AccountID: 5, AccountEndID: 6,
		Amount: decimal.Zero, DatePurchase: date,
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	require.True(t, errors.As(err, &e))
	assert.Contains(t, e.Detail, "amount")
}

func TestTransferService_Create_AccountNotOwned(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initReportTestConfig()
	defer func() { config.GlobalConfig = nil }()

	// only one of the two accounts belongs to the caller
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	s := NewTransferService()
	_, _, err := s.Create(1, TransferInput{
		AccountID: 5, AccountEndID: 99,
		Amount:       decimal.NewFromInt(100),
		DatePurchase: time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferService_Create_MissingTransferCategory(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initReportTestConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	// no category row: provisioning defect, not a user error
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := NewTransferService()
	_, _, err := s.Create(1, TransferInput{
		AccountID: 5, AccountEndID: 6,
		Amount:       decimal.NewFromInt(100),
		DatePurchase: time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConfiguration))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferService_Create_SameCurrency(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initReportTestConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "group_id"}).
			AddRow(7, "Transfers", 1, 1))

	// both legs in one transaction
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `movements`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO `movements`").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	s := NewTransferService()
	out, in, err := s.Create(1, TransferInput{
		AccountID:    5,
		AccountEndID: 6,
		Description:  "savings top-up",
		Amount:       decimal.NewFromInt(250),
		DatePurchase: time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, out.Amount.Equal(decimal.NewFromInt(-250)))
	assert.True(t, in.Amount.Equal(decimal.NewFromInt(250)))
	assert.True(t, out.Trm.Equal(decimal.NewFromInt(1)))
	assert.True(t, in.Trm.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, uint(7), out.CategoryID)
	assert.Equal(t, uint(7), in.CategoryID)
	assert.Nil(t, out.TransferID)
	require.NotNil(t, in.TransferID)
	assert.Equal(t, out.ID, *in.TransferID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferService_Create_CrossCurrencyRates(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initReportTestConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "group_id"}).
			AddRow(7, "Transfers", 1, 1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `movements`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO `movements`").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	// 100 USD out, 420000 COP in
	s := NewTransferService()
	out, in, err := s.Create(1, TransferInput{
		AccountID:    5,
		AccountEndID: 6,
		Amount:       decimal.NewFromInt(100),
		AmountEnd:    decimal.NewFromInt(420000),
		DatePurchase: time.Now(),
	})
	require.NoError(t, err)

	assert.True(t, out.Amount.Equal(decimal.NewFromInt(-100)))
	assert.True(t, in.Amount.Equal(decimal.NewFromInt(420000)))
	// leg rates are reciprocal
	assert.True(t, out.Trm.Mul(in.Trm).Round(6).Equal(decimal.NewFromInt(1)))
	assert.True(t, in.Trm.Equal(decimal.NewFromInt(4200)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferService_Create_SecondLegFails(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()
	initReportTestConfig()
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "group_id"}).
			AddRow(7, "Transfers", 1, 1))

	// first insert lands, second fails: the whole pair rolls back
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `movements`").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO `movements`").
		WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	s := NewTransferService()
	_, _, err := s.Create(1, TransferInput{
		AccountID:    5,
		AccountEndID: 6,
		Amount:       decimal.NewFromInt(100),
		DatePurchase: time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindDataAccess))
	require.NoError(t, mock.ExpectationsWereMet())
}
