package types

// SuccessEnvelope wraps every successful JSON payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. RequestID echoes the X-Request-Id response header so
// clients can quote it when reporting a failed price lookup.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
