package models

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Resp is the envelope used by action style endpoints (sign-in, sign-up,
// feedback generation), mirroring the {success, message} results the
// dashboards consume.
type Resp struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// view availability markers for dashboard payloads
const (
	ViewStatusOK          = "ok"
	ViewStatusUnavailable = "unavailable"
)
