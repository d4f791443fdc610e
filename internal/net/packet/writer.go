package packet

import (
	"encoding/json"
	"fmt"
)

// Server message types.
const (
	TypeSnapshot = "snapshot"
	TypeError    = "error"
)

type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Encode builds one outbound frame.
func Encode(typ string, payload any) ([]byte, error) {
	b, err := json.Marshal(outbound{Type: typ, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	return b, nil
}

// ErrorPayload tells a client its message was rejected.
type ErrorPayload struct {
	Message string `json:"message"`
}
