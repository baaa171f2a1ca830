package api

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"cartera/apperr"
	"cartera/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respondErrorRecorder(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, err, "fallback")

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestRespondError_Validation(t *testing.T) {
	err := apperr.Validation("amount must not be zero", map[string]string{"amount": "must not be zero"})
	w, resp := respondErrorRecorder(t, err)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "amount must not be zero", resp["message"])
	detail := resp["detail"].(map[string]interface{})
	assert.Equal(t, "must not be zero", detail["amount"])
}

func TestRespondError_NotFound(t *testing.T) {
	w, resp := respondErrorRecorder(t, apperr.NotFound("account not found"))
	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "account not found", resp["message"])
}

func TestRespondError_DataAccess_ReleaseHidesDetail(t *testing.T) {
	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "release"}}
	defer func() { config.GlobalConfig = nil }()

	cause := errors.New("dial tcp: connection refused")
	w, resp := respondErrorRecorder(t, apperr.DataAccess("report could not be generated", cause))

	assert.Equal(t, 500, w.Code)
	assert.Equal(t, "report could not be generated", resp["message"])
	// internals stay out of release responses
	assert.Equal(t, "fallback", resp["detail"])
}

func TestRespondError_PlainError(t *testing.T) {
	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	defer func() { config.GlobalConfig = nil }()

	w, resp := respondErrorRecorder(t, errors.New("boom"))
	assert.Equal(t, 500, w.Code)
	assert.Equal(t, "boom", resp["message"])
}
