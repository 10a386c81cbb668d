package models

// Envelope is the response shape every API endpoint emits: a success flag, an
// optional human-readable message (Indonesian, shown directly in the UI) and
// the payload.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK builds a success envelope with a payload.
func OK(data any) *Envelope {
	return &Envelope{Success: true, Data: data}
}

// OKMessage builds a success envelope with a message and payload.
func OKMessage(message string, data any) *Envelope {
	return &Envelope{Success: true, Message: message, Data: data}
}

// Validatable is implemented by request types that can validate themselves
// after decoding.
type Validatable interface {
	Validate() error
}
