package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the API error type returned by the service layer. It carries the
// HTTP status the transport should respond with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrInvalidPassword     = New("invalid email or password", http.StatusUnauthorized)
	InActiveUserError      = New("user inactive", http.StatusUnauthorized)
)

var (
	ErrUserNotFound         = New("user not found", http.StatusNotFound)
	ErrConversationNotFound = New("conversation not found", http.StatusNotFound)
	ErrMessageNotFound      = New("message not found", http.StatusNotFound)
	ErrNotParticipant       = New("you are not part of this conversation", http.StatusForbidden)
	ErrInvalidMembership    = New("a conversation requires at least two distinct participants", http.StatusBadRequest)
	ErrMissingUserID        = New("user_id is required", http.StatusBadRequest)
)

// FromError converts any error to an *Error, defaulting to 500 for
// unrecognized ones so the transport never leaks internals.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	return ErrInternalServerError
}

// GetUniqueConstraintError maps a postgres unique violation to a friendly
// conflict error, falling back to 500.
func GetUniqueConstraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "23505") {
		switch {
		case strings.Contains(msg, "email"):
			return New("user with this email already exists", http.StatusConflict)
		case strings.Contains(msg, "username"):
			return New("user with this username already exists", http.StatusConflict)
		default:
			return New("record already exists", http.StatusConflict)
		}
	}
	return ErrInternalServerError
}

// ErrorHandler is the handler gin-rate-limit calls when a client exceeds the
// configured rate.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"status":  http.StatusText(http.StatusTooManyRequests),
		"message": "Too many requests. Try again in " + time.Until(info.ResetTime).String(),
	})
	c.Abort()
}
