package queue

import "encoding/json"

// Message is a workflow event envelope sent to downstream consumers.
type Message struct {
	Event      string         `json:"event"`
	CompanyID  string         `json:"companyId"`
	Payload    map[string]any `json:"payload,omitempty"`
	EnqueuedAt string         `json:"enqueuedAt"`
	Version    int            `json:"version"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
