package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/response"
	"github.com/stemsi/unirecords-backend/internal/service"
	"github.com/stemsi/unirecords-backend/internal/validator"
)

// NotificationHandler handles manually sent emails.
type NotificationHandler struct {
	notificationService *service.NotificationService
	log                 zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *service.NotificationService, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		log:                 log.With().Str("component", "notification_handler").Logger(),
	}
}

// SendMail godoc
// POST /api/v1/notifications/send
// Sends a grade notification when a score is given, otherwise a plain message.
func (h *NotificationHandler) SendMail(c *gin.Context) {
	var req model.SendMailRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.notificationService.SendManual(c.Request.Context(), req.To, req.Subject, req.Body, req.CourseName, req.Score)
	if err != nil {
		h.log.Error().Err(err).Str("to", req.To).Msg("Manual email failed")
		response.Fail(c, http.StatusBadGateway, response.ErrMailSendFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "email sent"})
}
