package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// MessagePayload is the body of acknowledgements such as deletes.
type MessagePayload struct {
	Message string `json:"message"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
