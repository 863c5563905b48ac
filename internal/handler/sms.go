package handler

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/caption-queue/internal/ingest"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/notifier"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
)

const (
	smsNotAuthorized = "Sorry, your number is not authorized to use this service."
	smsReceived      = "Your submission has been received and will be reviewed. The generated caption is: "
	smsFailed        = "An error occurred while processing your submission. Please try again later."
)

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

type notifyRequest struct {
	SubmissionID string `json:"submission_id" binding:"required"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
	Message      string `json:"message" binding:"required"`
}

func (h *Handler) smsWebhook(c *gin.Context) {
	ctx := c.Request.Context()
	if err := c.Request.ParseForm(); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid form"})
		return
	}
	form := c.Request.PostForm

	if h.cfg.TwilioAuthToken != "" {
		url := strings.TrimRight(h.cfg.PublicURL, "/") + c.Request.URL.RequestURI()
		if !notifier.ValidateSignature(h.cfg.TwilioAuthToken, url, form, c.GetHeader("X-Twilio-Signature")) {
			h.logger.Warn(ctx, "Rejected SMS webhook with invalid signature")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "invalid Twilio signature"})
			return
		}
	}

	from, body := form.Get("From"), form.Get("Body")
	if from == "" || body == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "From and Body are required"})
		return
	}
	if !h.senderApproved(from) {
		h.logger.Info(ctx, "SMS from unapproved number %s", from)
		h.twiml(c, smsNotAuthorized)
		return
	}

	sub, err := h.pipeline.Ingest(ctx, ingest.Input{
		Source:      models.SourceSMS,
		Text:        body,
		Tone:        tone.ParseRequest(h.cfg.SMSTone),
		PhoneNumber: from,
		MessageSID:  form.Get("MessageSid"),
	})
	if err != nil {
		h.logger.Error(ctx, "Processing SMS from %s: %v", from, err)
		h.twiml(c, smsFailed)
		return
	}
	h.twiml(c, smsReceived+sub.Caption)
}

func (h *Handler) smsNotify(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "submission_id, phone_number and message are required"})
		return
	}

	rec, err := h.lifecycle.Notify(c.Request.Context(), req.SubmissionID, req.PhoneNumber, req.Message)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "notification recorded", "notification": rec})
}

func (h *Handler) senderApproved(from string) bool {
	if len(h.approved) == 0 {
		return true
	}
	return h.approved[normalizeNumber(from)]
}

func (h *Handler) twiml(c *gin.Context, message string) {
	body, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml", append([]byte(xml.Header), body...))
}
