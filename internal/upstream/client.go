package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ForwardRequest — запрос, пересылаемый в endpoint проверки пароля CMS.
// Заголовки Content-Type и Content-Length исходного запроса вызывающая
// сторона уже убрала: тело перекодировано, и фрейминг задаёт ContentType.
type ForwardRequest struct {
	Method      string
	Header      http.Header
	Body        []byte
	ContentType string
}

// Response — ответ коллаборатора. Тело читается целиком: дальше оно
// возвращается клиенту без изменений.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK повторяет семантику res.ok у fetch: любой 2xx статус.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client пересылает учётные данные в login endpoint CMS по HTTP.
// Критерий успеха ответа для шлюза непрозрачен: решает статус код.
type Client struct {
	loginURL   string
	httpClient *http.Client
}

// NewClient создаёт клиента к endpoint'у проверки пароля.
func NewClient(loginURL string, timeout time.Duration) *Client {
	return &Client{
		loginURL: loginURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Verify выполняет запрос и вычитывает ответ целиком.
func (c *Client) Verify(ctx context.Context, fwd ForwardRequest) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, fwd.Method, c.loginURL, bytes.NewReader(fwd.Body))
	if err != nil {
		return nil, fmt.Errorf("upstream: не удалось собрать запрос: %w", err)
	}

	for key, values := range fwd.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", fwd.ContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: запрос к login endpoint не выполнен: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream: не удалось прочитать ответ: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
	}, nil
}
