package api

import (
	"errors"
	"net/http"

	"cartera/apperr"

	"github.com/gin-gonic/gin"
)

// Response is the generic API envelope. Detail carries the structured error
// payload (field map or diagnostic), Data the result.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse is the paginated list envelope.
type PageResponse struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage writes a 200 response with a custom message.
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error writes an error response.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetail writes an error response carrying a structured detail.
func ErrorWithDetail(c *gin.Context, code int, message string, detail interface{}) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Detail:  detail,
	})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// InternalError writes a 500 response.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// NotFound writes a 404 response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// RespondError maps a service error to its HTTP shape. Validation errors keep
// their field detail; store and provisioning failures expose diagnostics only
// outside release mode.
func RespondError(c *gin.Context, err error, fallback string) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		InternalError(c, SafeErrorMessage(err, fallback))
		return
	}
	switch e.Kind {
	case apperr.KindValidation:
		ErrorWithDetail(c, http.StatusBadRequest, e.Message, e.Detail)
	case apperr.KindNotFound:
		ErrorWithDetail(c, http.StatusNotFound, e.Message, "the requested data does not exist")
	case apperr.KindConfiguration, apperr.KindDataAccess:
		ErrorWithDetail(c, http.StatusInternalServerError, e.Message, SafeErrorMessage(e.Err, fallback))
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
