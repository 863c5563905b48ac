package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nguyentantai21042004/caption-queue/internal/ingest"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
)

func (h *Handler) submitText(c *gin.Context) {
	sub, err := h.pipeline.Ingest(c.Request.Context(), ingest.Input{
		Source: models.SourceText,
		Text:   c.PostForm("text"),
		Tone:   tone.ParseRequest(c.DefaultPostForm("tone", h.cfg.DefaultTone)),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) submitAudio(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, fmt.Errorf("%w: file is required", models.ErrInvalidInput))
		return
	}
	if !models.IsAudioFile(file.Filename) {
		h.respondError(c, fmt.Errorf("%w: invalid file type, supported types: %s",
			models.ErrInvalidInput, strings.Join(models.AudioExtensions, ", ")))
		return
	}

	dst := filepath.Join(h.cfg.UploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(file.Filename)))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.respondError(c, fmt.Errorf("save upload: %w", err))
		return
	}

	sub, err := h.pipeline.Ingest(c.Request.Context(), ingest.Input{
		Source:    models.SourceAudio,
		AudioPath: dst,
		Filename:  file.Filename,
		Tone:      tone.ParseRequest(c.DefaultPostForm("tone", h.cfg.DefaultTone)),
		Hint:      c.PostForm("caption_hint"),
	})
	if err != nil {
		if rmErr := os.Remove(dst); rmErr != nil {
			h.logger.Warn(c.Request.Context(), "Failed to remove upload %s: %v", dst, rmErr)
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) listTones(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tones": tone.Available()})
}
