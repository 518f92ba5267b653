package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oksasatya/student-manager/pkg/apperror"
	"github.com/sirupsen/logrus"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// ErrorBody is the error payload: a stable kind plus optional field messages.
type ErrorBody struct {
	Kind   apperror.Kind     `json:"kind"`
	Fields map[string]string `json:"fields,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

func Error(ctx *gin.Context, status int, message string, err interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, envelope(ctx, status, message, err))
}

// Abort writes an error envelope and stops the middleware chain.
func Abort(ctx *gin.Context, status int, message string, err interface{}) {
	ctx.AbortWithStatusJSON(status, envelope(ctx, status, message, err))
}

func envelope(ctx *gin.Context, status int, message string, err interface{}) APIResponse[any] {
	return APIResponse[any]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromError writes err as an error envelope. Internal errors are logged and
// answered with a generic message.
func FromError(ctx *gin.Context, err error, logger *logrus.Logger) {
	kind := apperror.KindOf(err)
	status := StatusOf(kind)
	body := ErrorBody{Kind: kind}
	message := http.StatusText(status)

	if e, ok := apperror.As(err); ok && kind != apperror.KindInternal {
		body.Fields = e.Fields
		if e.Message != "" {
			message = e.Message
		}
	}
	if kind == apperror.KindInternal && logger != nil {
		logger.WithError(err).
			WithField("request_id", ctx.GetString("request_id")).
			WithField("path", ctx.FullPath()).
			Error("request failed")
		message = "internal server error"
	}
	Error(ctx, status, message, body)
}
