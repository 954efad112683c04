package authsdk

import (
	"net/http"

	"github.com/aussiebroadwan/passport/pkg/httpx"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope every credential endpoint answers with. Code is
// null on success; Data is null on failure.
type APIResponse[T any] struct {
	Status  string `json:"status"`
	Data    T      `json:"data"`
	Code    *int   `json:"code"`
	Message string `json:"message"`
}

// ResponseCode pairs an envelope outcome with the HTTP status it is sent
// under. Application codes are stable and unique among error codes; clients
// should branch on Code rather than on the HTTP status.
type ResponseCode struct {
	Name       string
	Status     string
	Code       int // zero for success codes
	Message    string
	HTTPStatus int
}

var (
	LoginOK = ResponseCode{
		Name:       "LOGIN_OK",
		Status:     StatusSuccess,
		Message:    "login succeeded",
		HTTPStatus: http.StatusOK,
	}
	LogoutOK = ResponseCode{
		Name:       "LOGOUT_OK",
		Status:     StatusSuccess,
		Message:    "logout succeeded",
		HTTPStatus: http.StatusOK,
	}
	TokenCreated = ResponseCode{
		Name:       "TOKEN_CREATE_SUCCESS",
		Status:     StatusSuccess,
		Message:    "token created",
		HTTPStatus: http.StatusOK,
	}

	InvalidParameter = ResponseCode{
		Name:       "INVALID_PARAMETER",
		Status:     StatusError,
		Code:       400,
		Message:    "invalid parameter",
		HTTPStatus: http.StatusBadRequest,
	}
	// NotUser tells the client the identity is unknown and should be sent
	// to registration.
	NotUser = ResponseCode{
		Name:       "NOT_USER",
		Status:     StatusError,
		Code:       401,
		Message:    "not a registered user",
		HTTPStatus: http.StatusNotFound,
	}
	ExpiredRefreshToken = ResponseCode{
		Name:       "EXPIRED_REFRESH_TOKEN",
		Status:     StatusError,
		Code:       402,
		Message:    "refresh token expired, log in again",
		HTTPStatus: http.StatusUnauthorized,
	}
	InvalidToken = ResponseCode{
		Name:       "INVALID_TOKEN",
		Status:     StatusError,
		Code:       403,
		Message:    "invalid token",
		HTTPStatus: http.StatusUnauthorized,
	}
	RateLimited = ResponseCode{
		Name:       "RATE_LIMITED",
		Status:     StatusError,
		Code:       429,
		Message:    "too many requests, try again later",
		HTTPStatus: http.StatusTooManyRequests,
	}
	ServerError = ResponseCode{
		Name:       "SERVER_ERROR",
		Status:     StatusError,
		Code:       500,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}
	PersistenceFailed = ResponseCode{
		Name:       "PERSISTENCE_FAILED",
		Status:     StatusError,
		Code:       501,
		Message:    "credentials could not be stored, try again",
		HTTPStatus: http.StatusInternalServerError,
	}
	UpstreamUnavailable = ResponseCode{
		Name:       "UPSTREAM_UNAVAILABLE",
		Status:     StatusError,
		Code:       503,
		Message:    "user directory unavailable, try again",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)

// errorCodes indexes the error codes for client-side decoding.
var errorCodes = map[int]ResponseCode{
	InvalidParameter.Code:    InvalidParameter,
	NotUser.Code:             NotUser,
	ExpiredRefreshToken.Code: ExpiredRefreshToken,
	InvalidToken.Code:        InvalidToken,
	RateLimited.Code:         RateLimited,
	ServerError.Code:         ServerError,
	PersistenceFailed.Code:   PersistenceFailed,
	UpstreamUnavailable.Code: UpstreamUnavailable,
}

// IsSuccess reports whether c is a success code.
func (c ResponseCode) IsSuccess() bool { return c.Status == StatusSuccess }

// Write sends the envelope for c with data as payload. Error codes always
// carry a null payload.
func (c ResponseCode) Write(w http.ResponseWriter, data any) {
	resp := APIResponse[any]{
		Status:  c.Status,
		Message: c.Message,
	}
	if c.IsSuccess() {
		resp.Data = data
	} else {
		code := c.Code
		resp.Code = &code
	}

	httpx.WriteJSON(w, c.HTTPStatus, resp)
}

// Err returns c as a client-side error value.
func (c ResponseCode) Err() *APIError {
	return &APIError{StatusCode: c.HTTPStatus, Code: c.Code, Message: c.Message}
}

// MarshalText renders c by name, which keeps it readable in logs.
func (c ResponseCode) MarshalText() ([]byte, error) { return []byte(c.Name), nil }
