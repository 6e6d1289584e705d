package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/today-todo/internal/application"
	"github.com/oksasatya/today-todo/pkg/response"
	"github.com/oksasatya/today-todo/pkg/validation"
)

// statusFor maps application errors onto HTTP status codes. Unknown errors are 500.
func statusFor(err error) int {
	var ve *application.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, application.ErrSelfFollow),
		errors.Is(err, application.ErrUnsupportedImage):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrTaskNotFound),
		errors.Is(err, application.ErrCategoryNotFound),
		errors.Is(err, application.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrUsernameTaken),
		errors.Is(err, application.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, application.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope. Server errors are logged and reported generically.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		_ = c.Error(err)
		if status == http.StatusInternalServerError {
			response.Error(c, status, "internal server error", nil)
			return
		}
	}
	var ve *application.ValidationError
	if errors.As(err, &ve) {
		response.Error(c, status, err.Error(), map[string]string{ve.Field: ve.Message})
		return
	}
	response.Error(c, status, err.Error(), nil)
}

// badRequest reports a binding or validation failure.
func badRequest(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// pathID parses a positive integer route parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid "+name, map[string]string{name: "must be a positive integer"})
		return 0, false
	}
	return id, true
}

func deleted(c *gin.Context, message string) {
	response.Success(c, http.StatusOK, response.Deleted{Success: true}, message, nil)
}
