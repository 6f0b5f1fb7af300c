package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"

	apperrors "tally/internal/errors"
	"tally/internal/logger"
	"tally/internal/models"
	"tally/internal/pagination"
	"tally/internal/queue"
)

// auditInsertAttempts is the number of tries for a single audit write before
// the entry is spilled to the queue (or dropped).
const auditInsertAttempts = 3

// AuditSpillPublisher publishes audit entries that could not be written to
// the database. *queue.Client satisfies this.
type AuditSpillPublisher interface {
	PublishAuditSpill(ctx context.Context, msg *queue.AuditSpillMessage) error
}

// auditService handles audit log recording.
type auditService struct {
	db    *gorm.DB
	spill AuditSpillPublisher
}

// NewAuditService creates a new AuditServicer. spill may be nil; without a
// spill queue, failed audit writes are logged and dropped.
func NewAuditService(db *gorm.DB, spill AuditSpillPublisher) AuditServicer {
	return &auditService{db: db, spill: spill}
}

// Record writes an audit entry for a create/update/delete attempt.
// previousState and newState are serialized to JSON snapshots; pass nil for
// the side an event type does not have (create has no previous state, delete
// has no new state). Errors never propagate to the caller: the primary
// operation's outcome must not depend on audit bookkeeping.
func (s *auditService) Record(
	actor Actor,
	eventType models.AuditEventType,
	resource string,
	resourceID *uint,
	previousState, newState interface{},
	outcome models.AuditOutcome,
) {
	name := actor.Name
	if name == "" {
		name = UnknownActorName
	}

	entry := models.AuditLog{
		ActorID:       actor.ID,
		ActorName:     name,
		EventType:     eventType,
		Resource:      resource,
		ResourceID:    resourceID,
		PreviousState: marshalSnapshot(previousState),
		NewState:      marshalSnapshot(newState),
		Outcome:       outcome,
		IPAddress:     actor.IP,
	}

	insert := func() error {
		return s.db.Create(&entry).Error
	}
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(50*time.Millisecond), auditInsertAttempts-1)
	if err := backoff.Retry(insert, policy); err != nil {
		s.handleFailedWrite(entry, err)
	}
}

// handleFailedWrite routes an unwritable entry to the spill queue when
// available, otherwise logs and drops it.
func (s *auditService) handleFailedWrite(entry models.AuditLog, err error) {
	log := logger.Get()
	if s.spill != nil {
		msg := queue.NewAuditSpillMessage(entry, auditInsertAttempts)
		pubErr := s.spill.PublishAuditSpill(context.Background(), msg)
		if pubErr == nil {
			return
		}
		log.Errorw("failed to publish audit spill message",
			"error", pubErr,
			"resource", entry.Resource,
			"event_type", entry.EventType,
		)
	}
	log.Errorw("dropping audit log entry after failed write",
		"error", err,
		"actor_id", entry.ActorID,
		"event_type", entry.EventType,
		"resource", entry.Resource,
	)
}

// GetAuditLogs returns a paginated list of audit entries, newest first.
func (s *auditService) GetAuditLogs(page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	page.Defaults()

	base := s.db.Model(&models.AuditLog{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.AuditLog
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func marshalSnapshot(state interface{}) *string {
	if state == nil {
		return nil
	}
	data, err := json.Marshal(state)
	if err != nil {
		logger.Get().Errorw("failed to marshal audit snapshot", "error", err)
		fallback := "{}"
		return &fallback
	}
	s := string(data)
	return &s
}
