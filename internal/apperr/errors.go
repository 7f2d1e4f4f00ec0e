// Package apperr defines the API error taxonomy and renders errors as
// {"error", "message"} JSON bodies.
package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindNotFound
	KindInternal
)

// Error is an error with a client-facing title and message. The wrapped Err
// is logged but never sent to the client.
type Error struct {
	Kind    Kind
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Title + ": " + e.Err.Error()
	}
	return e.Title
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(title, message string) *Error {
	return &Error{Kind: KindValidation, Title: title, Message: message}
}

func Unauthorized(title, message string) *Error {
	return &Error{Kind: KindUnauthorized, Title: title, Message: message}
}

func NotFound(title, message string) *Error {
	return &Error{Kind: KindNotFound, Title: title, Message: message}
}

// Internal wraps err as a generic 500.
func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Title:   "Internal server error",
		Message: "An unexpected error occurred",
		Err:     err,
	}
}

// ErrInvalidBody is returned when a request body is not a JSON object.
var ErrInvalidBody = Validation("Invalid request body", "Request body must be a JSON object")

// From returns err as an *Error, wrapping anything unknown as Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Body is the JSON shape of every error response.
func (e *Error) Body() gin.H {
	return gin.H{"error": e.Title, "message": e.Message}
}

// Respond writes err to the client. Internal errors are logged with the
// request path since the client only sees a generic message.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	if appErr.Kind == KindInternal {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Unhandled error")
	}
	c.JSON(appErr.Status(), appErr.Body())
}

// Abort is Respond for middleware: it also stops the handler chain.
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}
