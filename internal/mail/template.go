package mail

import (
	"fmt"
	"time"
)

// OTPSubject — тема письма с кодом.
const OTPSubject = "Admin Login OTP"

// OTPEmail рендерит HTML письма с одноразовым кодом и сроком его действия.
func OTPEmail(code string, ttl time.Duration) string {
	return fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif;">
          <p style="margin-bottom: 20px; font-size: 16px;">
            Please login using the OTP provided below. If you did not request this OTP, please ignore this email.
          </p>

          <div style="margin-bottom: 20px; display: flex; flex-direction: column; gap: 8px; background-color: #f5f5f5; padding: 16px; border-radius: 6px; font-size: 16px; line-height: 1.5; ">
            <span><strong>OTP:</strong> %s</span>
          </div>

          <p style="margin-bottom: 20px; font-size: 16px;">
            <strong>
              This OTP is valid for %d minutes.
            </strong>
          </p>
        </div>
      `, code, int(ttl.Minutes()))
}
