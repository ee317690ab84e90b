package amqp

import (
	"encoding/json"
	"time"
)

// RecordsReplacedMessage announces that a save replaced the whole record
// set. Consumers re-read the store themselves; the message carries only
// enough to decide whether to bother.
type RecordsReplacedMessage struct {
	Rows      int       `json:"rows"`
	Store     string    `json:"store"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordsReplacedMessage(rows int, store string) *RecordsReplacedMessage {
	return &RecordsReplacedMessage{
		Rows:      rows,
		Store:     store,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RecordsReplacedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordsReplacedMessageFromJSON parses a message from JSON bytes.
func RecordsReplacedMessageFromJSON(data []byte) (*RecordsReplacedMessage, error) {
	var msg RecordsReplacedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
