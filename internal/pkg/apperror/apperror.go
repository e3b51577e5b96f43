package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized is matched by any HTTPError carrying a 401 status.
var ErrUnauthorized = errors.New("unauthorized")

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	Status int    // HTTP Status Code (e.g., 400, 404)
	Data   []byte // Raw response body, possibly empty
}

func (e *HTTPError) Error() string {
	if d, ok := e.Detail(); ok {
		return fmt.Sprintf("request failed with status %d: %s", e.Status, d)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Detail extracts the "detail" field of a structured error body.
// A list of messages is joined with "; ".
func (e *HTTPError) Detail() (string, bool) {
	if len(e.Data) == 0 {
		return "", false
	}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(e.Data, &body); err != nil || len(body.Detail) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s, true
	}

	var list []string
	if err := json.Unmarshal(body.Detail, &list); err == nil && len(list) > 0 {
		return strings.Join(list, "; "), true
	}

	return "", false
}

// New creates a new HTTPError with a status code and raw body.
func New(status int, data []byte) *HTTPError {
	return &HTTPError{
		Status: status,
		Data:   data,
	}
}

// FromDetail re-raises an HTTPError carrying a {detail} body as a plain error
// whose message is the detail text. Any other error is returned unchanged.
func FromDetail(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}

	detail, ok := httpErr.Detail()
	if !ok {
		return err
	}
	return errors.New(detail)
}
