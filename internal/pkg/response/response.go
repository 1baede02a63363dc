package response

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
)

// Envelope is the JSON shape of every response: a success flag plus either a payload or a message.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// PageEnvelope is the envelope for paginated list endpoints.
type PageEnvelope[T any] struct {
	Success  bool `json:"success"`
	Data     []T  `json:"data"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	Total    int  `json:"total"`
}

// errorLogger receives unexpected (500) errors. Replaced by SetLogger at startup.
var errorLogger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger sets the logger used to report internal errors.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		errorLogger = l
	}
}

// OK sends a 200 envelope carrying data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created sends a 201 envelope carrying data.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Message sends a 200 envelope with only a message.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// List sends a 200 envelope with a slice payload, never null.
func List[T any](c *gin.Context, items []T) {
	if items == nil {
		items = make([]T, 0)
	}
	c.JSON(http.StatusOK, Envelope{Success: true, Data: items})
}

// Page sends a paginated envelope.
func Page[T any](c *gin.Context, items []T, page, pageSize, total int) {
	// Handle empty slice to avoid JSON outputting null
	if items == nil {
		items = make([]T, 0)
	}
	c.JSON(http.StatusOK, PageEnvelope[T]{
		Success:  true,
		Data:     items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	})
}

// Fail sends a failure envelope with an explicit status.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{Success: false, Message: message})
}

// BindError sends a 400 for a request that failed binding or validation.
func BindError(c *gin.Context, err error) {
	Fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			logInternal(c, err)
		}
		Fail(c, appErr.Code, appErr.Message)
		return
	}

	logInternal(c, err)
	Fail(c, http.StatusInternalServerError, "internal server error")
}

func logInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	errorLogger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).WithError(err).Error("request failed")
}
