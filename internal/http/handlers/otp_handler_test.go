package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/admin-otp-gateway/internal/crypto/otphash"
	"github.com/ignatzorin/admin-otp-gateway/internal/i18n"
	"github.com/ignatzorin/admin-otp-gateway/internal/service"
)

func newOTPTestRouter(t *testing.T, users *stubUserStore, otps *stubOTPStore, mailer *stubMailer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hasher, err := otphash.New("test-secret")
	if err != nil {
		t.Fatalf("не удалось создать hasher: %v", err)
	}

	svc := service.NewOTPService(users, otps, hasher, mailer, i18n.NewTableResolver(), handlerTestConfig())
	handler := NewOTPHandler(svc)

	r := gin.New()
	r.POST("/api/otp/request", handler.Request)
	return r
}

func otpRequest(t *testing.T, email string) *http.Request {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email})
	req, _ := http.NewRequest(http.MethodPost, "/api/otp/request", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestOTPHandler_Success(t *testing.T) {
	users := newStubUserStore()
	users.addUser("admin@example.com")
	otps := &stubOTPStore{}
	mailer := &stubMailer{}

	r := newOTPTestRouter(t, users, otps, mailer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, otpRequest(t, "admin@example.com"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"sent"}`, w.Body.String())
	assert.Equal(t, 1, mailer.sent)
	assert.Len(t, otps.records, 1)
}

func TestOTPHandler_EmptyBody(t *testing.T) {
	r := newOTPTestRouter(t, newStubUserStore(), &stubOTPStore{}, &stubMailer{})

	req, _ := http.NewRequest(http.MethodPost, "/api/otp/request", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Email missing", body["error"])
}

func TestOTPHandler_UnknownUser(t *testing.T) {
	r := newOTPTestRouter(t, newStubUserStore(), &stubOTPStore{}, &stubMailer{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, otpRequest(t, "ghost@example.com"))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOTPHandler_Throttled(t *testing.T) {
	users := newStubUserStore()
	users.addUser("admin@example.com")
	otps := &stubOTPStore{}
	mailer := &stubMailer{}

	r := newOTPTestRouter(t, users, otps, mailer)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, otpRequest(t, "admin@example.com"))
	assert.Equal(t, http.StatusOK, w.Code)

	// Повторный запрос внутри окна повторной отправки.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, otpRequest(t, "admin@example.com"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	retryAfter, ok := body["retry_after"].(float64)
	assert.True(t, ok, "ответ должен содержать retry_after")
	assert.Greater(t, retryAfter, float64(0))
	assert.Less(t, retryAfter, float64(60))
	assert.Contains(t, body["error"], "Please try again after")

	assert.Equal(t, 1, mailer.sent, "второе письмо не должно отправляться")
}
