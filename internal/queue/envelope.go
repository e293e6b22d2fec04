package queue

import (
	"encoding/json"

	"github.com/oklog/ulid/v2"
)

// Headers travel with every message. Attempts counts how many times the
// payload has been re-published after a handler failure; a fresh message
// carries 0.
type Headers struct {
	Attempts int `json:"attempts"`
}

// Envelope is the wire format for everything on the queues. Body is kept
// raw so a retry re-publishes the identical payload byte for byte.
type Envelope struct {
	ID      string          `json:"id"`
	Headers Headers         `json:"headers"`
	Body    json.RawMessage `json:"body"`
}

func NewEnvelope(body []byte) Envelope {
	return Envelope{
		ID:   ulid.Make().String(),
		Body: body,
	}
}

func decodeEnvelope(raw string) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal([]byte(raw), &env)
	return env, err
}
