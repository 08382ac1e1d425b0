package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodePayload unmarshals a marketplace envelope and rejects bodies without a payload
func decodePayload(body string, target any) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Errorf("empty response body")
	}

	var envelope struct {
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if len(envelope.Payload) == 0 || string(envelope.Payload) == "null" {
		return fmt.Errorf("response has no payload")
	}

	return json.Unmarshal([]byte(body), target)
}
