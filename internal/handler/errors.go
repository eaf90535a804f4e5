package handler

import (
	"errors"
	"net/http"
	"strings"

	"freshharvest-be/internal/apperror"
	"freshharvest-be/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgInternal = "internal server error"
	msgConflict = "the cart was modified concurrently, please retry"
)

func statusFor(err error) int {
	switch apperror.Kind(err) {
	case apperror.ErrNotFound:
		return http.StatusNotFound
	case apperror.ErrInvalidArgument, apperror.ErrEmptyCart:
		return http.StatusBadRequest
	case apperror.ErrUnauthenticated:
		return http.StatusUnauthorized
	case apperror.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage drops the trailing kind from domain errors, so
// "cart item not found: not found" reads "cart item not found".
func publicMessage(err error) string {
	kind := apperror.Kind(err)
	switch kind {
	case apperror.ErrInternal:
		return msgInternal
	case apperror.ErrConflict:
		return msgConflict
	}
	return strings.TrimSuffix(err.Error(), ": "+kind.Error())
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": publicMessage(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

var errAuthRequired = errors.New("authentication credentials were not provided")
