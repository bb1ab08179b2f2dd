package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeUpstream      = "UPSTREAM_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError carries the client-visible message and status for a failure.
// The wrapped Err is logged but never sent to the client.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

func ValidationError(message string) *AppError {
	return NewAppError(CodeValidation, message, http.StatusBadRequest, nil)
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ErrorHandler catches panics and returns a structured 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: "Internal Server Error",
					Code:  CodeInternal,
				})
			}
		}()
		c.Next()
	}
}

// RespondError maps err onto a JSON error reply. AppErrors keep their status and
// message; anything else becomes a generic 500.
func RespondError(c *gin.Context, log *zap.Logger, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewAppError(CodeInternal, "Internal Server Error", http.StatusInternalServerError, err)
	}

	fields := []zap.Field{
		zap.String("code", appErr.Code),
		zap.Int("status", appErr.HTTPStatus),
		zap.String("path", c.Request.URL.Path),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error(appErr.Message, fields...)
	} else {
		log.Warn(appErr.Message, fields...)
	}

	c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorResponse{Error: appErr.Message, Code: appErr.Code})
}
