package dealer

import "carmarket/domain/shared"

const (
	EventCreated = "dealer.created"
	EventUpdated = "dealer.updated"
	EventDeleted = "dealer.deleted"
)

type ChangedEvent struct {
	shared.BaseEvent
	userID string
	name   string
}

func NewChangedEvent(name string, d *Dealer) *ChangedEvent {
	return &ChangedEvent{BaseEvent: shared.NewBaseEvent(name, d.id), userID: d.userID, name: d.name}
}

func (e *ChangedEvent) Payload() map[string]any {
	return map[string]any{"dealer_id": e.GetAggregateID(), "user_id": e.userID, "name": e.name}
}
