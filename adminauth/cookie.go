// Package adminauth signs and verifies the admin console's identity cookies.
// The cookie carries "value.signature" where the signature is an HMAC-SHA256
// over the value, so a tampered user id never verifies.
package adminauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"cartera/config"

	"github.com/gin-gonic/gin"
)

// AdminUserCookie is the signed cookie holding the admin session's user id.
const AdminUserCookie = "admin_user_id"

// fallback when no secret is configured; real deployments set jwt.secret.
const defaultCookieSecret = "cartera-admin-cookie-secret"

func cookieSecret() []byte {
	cfg := config.GetConfig()
	if cfg != nil && cfg.JWT.Secret != "" {
		return []byte(cfg.JWT.Secret)
	}
	return []byte(defaultCookieSecret)
}

func sign(value string) string {
	mac := hmac.New(sha256.New, cookieSecret())
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignCookieValue appends the HMAC signature to the value.
func SignCookieValue(value string) string {
	return value + "." + sign(value)
}

// VerifyCookieValue checks the signature and returns the bare value.
func VerifyCookieValue(signed string) (string, error) {
	if signed == "" {
		return "", errors.New("empty cookie value")
	}
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 {
		return "", errors.New("invalid cookie format")
	}
	value, signature := signed[:idx], signed[idx+1:]
	if !hmac.Equal([]byte(signature), []byte(sign(value))) {
		return "", errors.New("invalid cookie signature")
	}
	return value, nil
}

// GetVerifiedAdminUserID reads the signed admin cookie from the request and
// returns the user id it certifies.
func GetVerifiedAdminUserID(c *gin.Context) (uint, error) {
	signed, err := c.Cookie(AdminUserCookie)
	if err != nil {
		return 0, err
	}
	value, err := VerifyCookieValue(signed)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, errors.New("invalid cookie value")
	}
	return uint(id), nil
}
