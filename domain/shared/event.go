package shared

import (
	"fmt"
	"time"
)

// DomainEvent 领域事件
// Payload 返回可序列化的事件数据，由 outbox 持久化
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
	Payload() map[string]any
}

// BaseEvent 事件公共字段
type BaseEvent struct {
	name        string
	aggregateID string
	occurredOn  time.Time
}

// NewBaseEvent 创建事件公共字段
func NewBaseEvent(name, aggregateID string) BaseEvent {
	return BaseEvent{name: name, aggregateID: aggregateID, occurredOn: time.Now()}
}

func (e BaseEvent) EventName() string      { return e.name }
func (e BaseEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e BaseEvent) GetAggregateID() string { return e.aggregateID }

func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}
