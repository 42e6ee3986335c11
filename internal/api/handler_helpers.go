package api

import (
	"errors"
	"net/http"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/AlexanderESM/calories-tracker/internal/response"
	"github.com/gin-gonic/gin"
)

// StatusFor maps an error to its HTTP status. Anything that is not a
// domain error is an internal fault.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, internal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internal.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, internal.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HandleError logs err and aborts with the envelope for its status.
// Domain misses and conflicts are shown to the client as-is; validation
// and internal failures are prefixed with msg.
func HandleError(c *gin.Context, logger internal.Logger, err error, msg string) {
	requestID := c.GetString("request_id")
	status := StatusFor(err)
	message := msg + ": " + err.Error()
	switch status {
	case http.StatusBadRequest:
		logger.Warnf("[request_id=%s] %s: %v", requestID, msg, err)
	case http.StatusNotFound, http.StatusConflict:
		logger.Infof("[request_id=%s] %s: %v", requestID, msg, err)
		message = err.Error()
	default:
		logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	}
	c.AbortWithStatusJSON(status, response.Failure(status, message))
}

// bindJSON decodes the request body, reporting malformed JSON as a
// validation error.
func bindJSON(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return internal.Invalidf("invalid JSON: %v", err)
	}
	return nil
}

func HandleSuccess(c *gin.Context, logger internal.Logger, status int, data interface{}, meta map[string]any) {
	requestID := c.GetString("request_id")
	logger.Debugf("[request_id=%s] Success", requestID)
	c.JSON(status, response.Success(data, meta))
}
