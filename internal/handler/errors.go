package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrTranscriptionFailed), errors.Is(err, models.ErrPostingFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "%s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = "internal server error"
	} else {
		h.logger.Debug(c.Request.Context(), "%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
