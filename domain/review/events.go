package review

import "carmarket/domain/shared"

const (
	EventCreated    = "review.created"
	EventUpdated    = "review.updated"
	EventDeleted    = "review.deleted"
	EventVerified   = "review.verified"
	EventUnverified = "review.unverified"
)

// ChangedEvent 评价变更事件，name 区分具体变更类型
type ChangedEvent struct {
	shared.BaseEvent
	listingID string
	rating    int
	verified  bool
}

func NewChangedEvent(name string, r *Review) *ChangedEvent {
	return &ChangedEvent{
		BaseEvent: shared.NewBaseEvent(name, r.id),
		listingID: r.listingID,
		rating:    r.rating,
		verified:  r.verified,
	}
}

func (e *ChangedEvent) Payload() map[string]any {
	return map[string]any{
		"review_id":   e.GetAggregateID(),
		"listing_id":  e.listingID,
		"rating":      e.rating,
		"is_verified": e.verified,
	}
}
