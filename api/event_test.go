package api

import (
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

func TestEventHandler_List_CarriesBalances(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := newTestConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `events`").
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "end_event", "created_at", "updated_at", "deleted_at"}).
			AddRow(10, "Trip", 1, now, now, now, nil).
			AddRow(11, "Move", 1, now, now, now, nil))
	// one balance query per event, in listing order
	mock.ExpectQuery("SELECT .* FROM `movements`").
		WithArgs(uint(1), uint(10)).
		WillReturnRows(sqlmock.NewRows([]string{"currency", "badge_id", "amount"}).
			AddRow("USD", 1, "-350.00"))
	mock.ExpectQuery("SELECT .* FROM `movements`").
		WithArgs(uint(1), uint(11)).
		WillReturnRows(sqlmock.NewRows([]string{"currency", "badge_id", "amount"}))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewEventHandler()
	router.GET("/events", asUser(1), h.List)

	req := httptest.NewRequest("GET", "/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	require.Len(t, data, 2)

	first := data[0].(map[string]interface{})
	balance, ok := first["balance"].([]interface{})
	require.True(t, ok, "listed event should carry its balance")
	require.Len(t, balance, 1)
	assert.Equal(t, "USD", balance[0].(map[string]interface{})["currency"])

	// no movements yet: the balance key is simply absent
	second := data[1].(map[string]interface{})
	_, ok = second["balance"]
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}
