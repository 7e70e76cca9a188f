package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/admin-otp-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/admin-otp-gateway/internal/service"
)

// OTPHandler предоставляет HTTP слой для выдачи одноразовых кодов.
type OTPHandler struct {
	otp *service.OTPService
}

// NewOTPHandler создаёт хэндлер.
func NewOTPHandler(otp *service.OTPService) *OTPHandler {
	return &OTPHandler{otp: otp}
}

// Request обрабатывает POST /api/otp/request.
// Ответ об отказе — человекочитаемая причина: UI показывает её как toast.
func (h *OTPHandler) Request(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}

	// Нечитаемое тело эквивалентно пустому email: сервис ответит "Email missing".
	_ = c.ShouldBindJSON(&req)

	if err := h.otp.RequestOTP(c.Request.Context(), req.Email); err != nil {
		if appErr, ok := apperror.As(err); ok {
			body := gin.H{"error": appErr.Message}
			if appErr.Code == apperror.ErrCodeThrottled {
				body["retry_after"] = appErr.RetryAfterSeconds
			}
			c.JSON(appErr.HTTPStatus, body)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
