package httpclient

import (
	"net/http"
	"time"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns an http.Client bounded by timeout. Zero disables the limit.
func New(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
