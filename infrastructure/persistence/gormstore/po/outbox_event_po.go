package po

import (
	"encoding/json"
	"time"

	"carmarket/domain/shared"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID          string         `gorm:"primaryKey;size:64"`
	AggregateID string         `gorm:"size:64;index;not null"`
	EventType   string         `gorm:"size:100;index;not null"` // e.g. "listing.created", "review.verified"
	Payload     datatypes.JSON `gorm:"not null"`
	Status      string         `gorm:"size:20;default:PENDING;not null;index"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int            `gorm:"default:0;not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromDomainEvent Convert domain event to outbox persistence object
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := MarshalEvent(event)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OutboxEventPO{
		ID:          uuid.New().String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(EventStatusPending),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// MarshalEvent 事件信封：event_name / aggregate_id / occurred_on + 事件自身的 payload
func MarshalEvent(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"event_name":   event.EventName(),
		"aggregate_id": event.GetAggregateID(),
		"occurred_on":  event.OccurredOn(),
		"data":         event.Payload(),
	})
}

// ToEventData Extract event data from outbox PO (for debugging/testing)
func (po *OutboxEventPO) ToEventData() (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(po.Payload, &data); err != nil {
		return nil, err
	}
	return data, nil
}
