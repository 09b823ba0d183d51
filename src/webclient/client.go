package webclient

import (
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// NewDefault returns an HTTP client with sane timeouts for third-party APIs.
func NewDefault(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
