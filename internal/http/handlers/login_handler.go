package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/admin-otp-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/admin-otp-gateway/internal/service"
	"github.com/ignatzorin/admin-otp-gateway/internal/upstream"
)

// maxLoginFormMemory ограничивает разбор multipart формы логина.
const maxLoginFormMemory = 1 << 20

// LoginHandler предоставляет HTTP слой для логина с OTP.
type LoginHandler struct {
	login *service.LoginService
}

// NewLoginHandler создаёт хэндлер.
func NewLoginHandler(login *service.LoginService) *LoginHandler {
	return &LoginHandler{login: login}
}

// loginForm — JSON конверт, который форма админки кладёт в поле _payload.
type loginForm struct {
	Email    string `json:"email"`
	OTP      int    `json:"otp"`
	Password string `json:"password"`
}

type errorItem struct {
	Message string `json:"message"`
}

// errorEnvelope — формат ошибок, который ожидает форма логина админки.
type errorEnvelope struct {
	Errors []errorItem `json:"errors"`
}

// Login обрабатывает POST /api/login: multipart форма с полем _payload,
// внутри которого JSON с email, otp и password.
func (h *LoginHandler) Login(c *gin.Context) {
	// Ошибка разбора не терминальна сама по себе: пустой _payload ниже
	// даст тот же общий отказ.
	_ = c.Request.ParseMultipartForm(maxLoginFormMemory)

	payload := c.Request.PostFormValue("_payload")
	if payload == "" {
		writeLoginError(c, http.StatusUnauthorized, "Invalid form submission.")
		return
	}

	var form loginForm
	if err := json.Unmarshal([]byte(payload), &form); err != nil {
		writeLoginError(c, http.StatusUnauthorized, "Invalid form submission.")
		return
	}

	// Валидные коды шестизначные, ноль здесь означает отсутствие поля.
	otp := ""
	if form.OTP != 0 {
		otp = strconv.Itoa(form.OTP)
	}

	fwd, err := buildForwardRequest(c.Request)
	if err != nil {
		writeLoginError(c, http.StatusUnauthorized, "Invalid form submission.")
		return
	}

	resp, err := h.login.Login(c.Request.Context(), service.LoginInput{
		Email:    form.Email,
		Password: form.Password,
		OTP:      otp,
	}, fwd)
	if err != nil {
		if appErr, ok := apperror.As(err); ok {
			writeLoginError(c, appErr.HTTPStatus, appErr.Message)
			return
		}
		writeLoginError(c, http.StatusInternalServerError, "Internal server error.")
		return
	}

	// Ответ коллаборатора возвращается как есть: статус, заголовки, тело.
	header := c.Writer.Header()
	for key, values := range resp.Header {
		if key == "Content-Length" {
			continue
		}
		header[key] = values
	}

	c.Status(resp.StatusCode)
	_, _ = c.Writer.Write(resp.Body)
}

// writeLoginError пишет ошибку в конверте, который понимает форма логина.
func writeLoginError(c *gin.Context, status int, message string) {
	c.JSON(status, errorEnvelope{
		Errors: []errorItem{{Message: message}},
	})
}

// buildForwardRequest перекодирует форму в новое multipart тело для пересылки
// коллаборатору. Content-Type и Content-Length исходного запроса убираются:
// у нового тела другой boundary и другая длина. Accept-Encoding тоже:
// согласовывать сжатие должен http.Transport, иначе он не распакует ответ
// и дальше уйдёт сжатое тело с заголовком identity. Остальные заголовки,
// включая Origin и Cookie, передаются без изменений.
func buildForwardRequest(r *http.Request) (upstream.ForwardRequest, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if r.MultipartForm != nil {
		for field, values := range r.MultipartForm.Value {
			for _, v := range values {
				if err := w.WriteField(field, v); err != nil {
					return upstream.ForwardRequest{}, err
				}
			}
		}
	} else {
		for field, values := range r.PostForm {
			for _, v := range values {
				if err := w.WriteField(field, v); err != nil {
					return upstream.ForwardRequest{}, err
				}
			}
		}
	}

	if err := w.Close(); err != nil {
		return upstream.ForwardRequest{}, err
	}

	header := r.Header.Clone()
	header.Del("Content-Type")
	header.Del("Content-Length")
	header.Del("Accept-Encoding")

	return upstream.ForwardRequest{
		Method:      r.Method,
		Header:      header,
		Body:        buf.Bytes(),
		ContentType: w.FormDataContentType(),
	}, nil
}
