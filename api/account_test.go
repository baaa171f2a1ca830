package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"cartera/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asUser fakes the JWT middleware for handler tests.
func asUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func TestAccountHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := newTestConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `currencies`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name"}).AddRow(1, "USD", "US Dollar"))
	mock.ExpectQuery("SELECT .* FROM `type_accounts`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "bank"))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `accounts`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAccountHandler()
	router.POST("/accounts", asUser(1), h.Create)

	body := `{"name":"Checking","badge_id":1,"init_amount":100.50,"type_id":1}`
	req := httptest.NewRequest("POST", "/accounts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "account created", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_Create_UnknownCurrency(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := newTestConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `currencies`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAccountHandler()
	router.POST("/accounts", asUser(1), h.Create)

	body := `{"name":"Checking","badge_id":99,"init_amount":0,"type_id":1}`
	req := httptest.NewRequest("POST", "/accounts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_Restore(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := newTestConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	// the soft-deleted account is found without the deleted_at filter
	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "badge_id", "type_id", "user_id", "deleted_at"}).
			AddRow(5, "Old savings", 1, 1, 1, time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAccountHandler()
	router.PUT("/accounts/:id/restore", asUser(1), h.Restore)

	req := httptest.NewRequest("PUT", "/accounts/5/restore", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "account restored", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_Restore_AlreadyActive(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := newTestConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	// restoring an active account is the same update, never an error
	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "badge_id", "type_id", "user_id", "deleted_at"}).
			AddRow(5, "Savings", 1, 1, 1, nil))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAccountHandler()
	router.PUT("/accounts/:id/restore", asUser(1), h.Restore)

	req := httptest.NewRequest("PUT", "/accounts/5/restore", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_Restore_NotOwned(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := newTestConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAccountHandler()
	router.PUT("/accounts/:id/restore", asUser(1), h.Restore)

	req := httptest.NewRequest("PUT", "/accounts/5/restore", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountHandler_Balances(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := newTestConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	mock.ExpectQuery("SELECT .* FROM `accounts`").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "name", "currency", "type", "balance"}).
			AddRow(1, "Checking", "USD", "bank", "1500.00"))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAccountHandler()
	router.GET("/accounts/balances", asUser(1), h.Balances)

	req := httptest.NewRequest("GET", "/accounts/balances", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	rows := resp["data"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "Checking", row["name"])
	assert.Equal(t, "USD", row["currency"])
	require.NoError(t, mock.ExpectationsWereMet())
}
