package models

// AuditEventType identifies the mutation an audit entry records.
type AuditEventType string

const (
	AuditEventCreate AuditEventType = "create"
	AuditEventUpdate AuditEventType = "update"
	AuditEventDelete AuditEventType = "delete"
)

// AuditOutcome records whether the primary operation succeeded.
type AuditOutcome string

const (
	AuditOutcomeSuccess AuditOutcome = "success"
	AuditOutcomeFailure AuditOutcome = "failure"
)

// AuditLog is an append-only record of a create/update/delete attempt with
// before/after snapshots. Entries are never mutated or deleted by the
// application. PreviousState is nil for creates, NewState is nil for
// deletes, and ResourceID is nil for failed creates.
type AuditLog struct {
	Base
	ActorID       uint           `gorm:"index" json:"actor_id"`
	ActorName     string         `gorm:"not null" json:"actor_name"`
	EventType     AuditEventType `gorm:"not null" json:"event_type"`
	Resource      string         `gorm:"not null" json:"resource"`
	ResourceID    *uint          `json:"resource_id,omitempty"`
	PreviousState *string        `json:"previous_state,omitempty"`
	NewState      *string        `json:"new_state,omitempty"`
	Outcome       AuditOutcome   `gorm:"not null" json:"outcome"`
	IPAddress     string         `json:"ip_address"`
}
