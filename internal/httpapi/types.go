package httpapi

import "encoding/json"

// HealthResponse is the payload of the health endpoint. The daemon answers
// ok whenever it is up, regardless of the state of the Live connection.
type HealthResponse struct {
	Status string `json:"status"`
}

// AddDeviceResponse wraps a successful add-device call. Result carries
// whatever Live returned, unmodified; a command with no result encodes as
// null.
type AddDeviceResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
}

// ErrorResponse is the envelope shared by every non-success response.
type ErrorResponse struct {
	Error string `json:"error"`
}
