package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
)

func (h *Handler) listQueue(c *gin.Context) {
	f := models.Filter{
		Status: models.Status(c.Query("status")),
		Source: models.Source(c.Query("source")),
	}
	if f.Source != "" && !f.Source.Valid() {
		h.respondError(c, fmt.Errorf("%w: unknown source %q", models.ErrInvalidInput, f.Source))
		return
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.respondError(c, fmt.Errorf("%w: limit must be a non-negative integer", models.ErrInvalidInput))
			return
		}
		f.Limit = n
	}

	subs, err := h.lifecycle.List(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if subs == nil {
		subs = []models.Submission{}
	}
	c.JSON(http.StatusOK, gin.H{"queue": subs, "count": len(subs)})
}

func (h *Handler) getSubmission(c *gin.Context) {
	sub, err := h.lifecycle.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) approve(c *gin.Context) {
	h.respond(c)(h.lifecycle.Approve(c.Request.Context(), c.Param("id")))
}

func (h *Handler) reject(c *gin.Context) {
	h.respond(c)(h.lifecycle.Reject(c.Request.Context(), c.Param("id")))
}

func (h *Handler) post(c *gin.Context) {
	h.respond(c)(h.lifecycle.Post(c.Request.Context(), c.Param("id")))
}

func (h *Handler) editCaption(c *gin.Context) {
	text := c.PostForm("caption")
	if text == "" {
		text = c.Query("caption")
	}
	h.respond(c)(h.lifecycle.EditCaption(c.Request.Context(), c.Param("id"), text))
}

func (h *Handler) regenerate(c *gin.Context) {
	raw := c.PostForm("tone")
	if raw == "" {
		raw = c.DefaultQuery("tone", h.cfg.DefaultTone)
	}
	h.respond(c)(h.lifecycle.RegenerateCaption(c.Request.Context(), c.Param("id"), tone.ParseRequest(raw)))
}

// respond writes the outcome of a lifecycle operation.
func (h *Handler) respond(c *gin.Context) func(models.Submission, error) {
	return func(sub models.Submission, err error) {
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sub)
	}
}
