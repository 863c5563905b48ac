package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.metrics.Middleware(), h.timeout())

	r.GET("/", h.index)
	r.GET("/health", h.health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	submit := r.Group("/submit")
	submit.POST("/text", h.submitText)
	submit.POST("/audio", h.submitAudio)
	submit.GET("/tones", h.listTones)

	queue := r.Group("/queue")
	queue.GET("", h.listQueue)
	queue.GET("/:id", h.getSubmission)
	queue.PUT("/:id/approve", h.approve)
	queue.PUT("/:id/reject", h.reject)
	queue.PUT("/:id/post", h.post)
	queue.PUT("/:id/caption", h.editCaption)
	queue.PUT("/:id/regenerate", h.regenerate)

	sms := r.Group("/sms")
	sms.POST("/webhook", h.smsWebhook)
	sms.POST("/notify", h.smsNotify)

	return r
}

func (h *Handler) timeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cfg.RequestTimeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (h *Handler) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Caption queue API is running"})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().UTC()})
}
