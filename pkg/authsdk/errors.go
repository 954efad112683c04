package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is an error envelope returned by the service. Use errors.Is with
// the predefined values below to branch on the application code.
type APIError struct {
	// StatusCode is the HTTP status the error was sent with.
	StatusCode int

	// Code is the application code from the envelope.
	Code int

	// Message is the human-readable message from the envelope.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authsdk: %d (http %d): %s", e.Code, e.StatusCode, e.Message)
}

// Is matches on the application code only, so a wrapped or re-worded error
// still compares equal to its sentinel.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is.
var (
	ErrInvalidParameter    = InvalidParameter.Err()
	ErrNotUser             = NotUser.Err()
	ErrExpiredRefreshToken = ExpiredRefreshToken.Err()
	ErrInvalidToken        = InvalidToken.Err()
	ErrRateLimited         = RateLimited.Err()
	ErrServerError         = ServerError.Err()
	ErrPersistenceFailed   = PersistenceFailed.Err()
	ErrUpstreamUnavailable = UpstreamUnavailable.Err()
)

// LookupCode returns the ResponseCode registered for an application code.
func LookupCode(code int) (ResponseCode, bool) {
	c, ok := errorCodes[code]
	return c, ok
}

// parseErrorResponse turns a non-success reply into an *APIError. Replies
// without an envelope keep the HTTP status as their code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var env APIResponse[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && env.Code != nil {
		msg := env.Message
		if msg == "" {
			if c, ok := LookupCode(*env.Code); ok {
				msg = c.Message
			}
		}
		return &APIError{StatusCode: resp.StatusCode, Code: *env.Code, Message: msg}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Code: resp.StatusCode, Message: msg}
}
