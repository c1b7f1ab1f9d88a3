package httpclient

import (
	"fmt"
	"io"
	"net/http"
)

// ResponseError captures a non-2xx response from an external gateway.
type ResponseError struct {
	Gateway string
	Status  int
	Body    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Gateway, e.Status, e.Body)
}

// ParseResponseError reads the body of a non-2xx response and wraps it in a
// ResponseError. The body is fully consumed and closed.
func ParseResponseError(resp *http.Response, gateway string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", gateway, resp.StatusCode, err)
	}

	return &ResponseError{Gateway: gateway, Status: resp.StatusCode, Body: string(bodyBytes)}
}

// IsClientError reports whether the status code is a 4xx client error.
// Client errors should not be retried by notification workers.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
