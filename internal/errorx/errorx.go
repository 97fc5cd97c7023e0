// Package errorx maps errors to HTTP responses.
package errorx

import (
	"encoding/json"
	"errors"
	"net/http"

	"compass-earn/internal/compass"
)

const internalMessage = "internal server error"

// CodeError is an error carrying the HTTP status it should be reported with.
type CodeError struct {
	Code    int    `json:"-"`
	Msg     string `json:"error"`
	Details any    `json:"details,omitempty"`
	Cause   error  `json:"-"`
}

func (e *CodeError) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *CodeError) Unwrap() error {
	return e.Cause
}

func New(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

// Wrap reports cause with the given status; only msg and details reach the client.
func Wrap(code int, msg string, details any, cause error) *CodeError {
	return &CodeError{Code: code, Msg: msg, Details: details, Cause: cause}
}

func BadRequest(msg string) *CodeError {
	return New(http.StatusBadRequest, msg)
}

func NotFound(msg string) *CodeError {
	return New(http.StatusNotFound, msg)
}

// Status converts err into a status code and response body. Caller mistakes and
// upstream 4xx rejections are 400s; anything else is a 500 with a generic message.
func Status(err error) (int, *CodeError) {
	var codeErr *CodeError
	if errors.As(err, &codeErr) {
		return codeErr.Code, codeErr
	}

	var apiErr *compass.APIError
	if errors.As(err, &apiErr) && apiErr.IsClientError() {
		return http.StatusBadRequest, &CodeError{
			Code:    http.StatusBadRequest,
			Msg:     "upstream rejected the request",
			Details: upstreamDetails(apiErr.Body),
		}
	}

	return http.StatusInternalServerError, New(http.StatusInternalServerError, internalMessage)
}

// upstreamDetails passes a JSON error body through as JSON and anything else as text.
func upstreamDetails(body []byte) any {
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}
