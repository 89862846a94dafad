package weather

import "fmt"

// APIError is an error reported by the remote API, e.g. an unknown city
// (code 1006) or an invalid key (code 2006).
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// errorEnvelope is the error body shape: {"error":{"code":1006,"message":"..."}}.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
