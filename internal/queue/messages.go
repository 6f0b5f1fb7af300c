package queue

import (
	"encoding/json"
	"time"

	"tally/internal/models"
)

// AuditSpillMessage carries a full audit entry that could not be written to
// the database. The worker replays the insert; the store assigns its own
// timestamp-independent identity, so only the entry fields travel.
type AuditSpillMessage struct {
	Entry    models.AuditLog `json:"entry"`
	FailedAt time.Time       `json:"failed_at"`
	Attempts int             `json:"attempts"`
}

// NewAuditSpillMessage creates a spill message for a failed audit write.
func NewAuditSpillMessage(entry models.AuditLog, attempts int) *AuditSpillMessage {
	return &AuditSpillMessage{
		Entry:    entry,
		FailedAt: time.Now(),
		Attempts: attempts,
	}
}

// ToJSON converts the message to JSON bytes
func (m *AuditSpillMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AuditSpillMessageFromJSON creates a message from JSON bytes
func AuditSpillMessageFromJSON(data []byte) (*AuditSpillMessage, error) {
	var msg AuditSpillMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
