package listing

import "carmarket/domain/shared"

const (
	EventCreated = "listing.created"
	EventUpdated = "listing.updated"
	EventDeleted = "listing.deleted"
	EventSold    = "listing.sold"
)

type CreatedEvent struct {
	shared.BaseEvent
	ownerID    string
	categoryID string
	makeID     string
	modelID    string
	price      shared.Price
}

func NewCreatedEvent(l *Listing) *CreatedEvent {
	return &CreatedEvent{
		BaseEvent:  shared.NewBaseEvent(EventCreated, l.id),
		ownerID:    l.ownerID,
		categoryID: l.categoryID,
		makeID:     l.makeID,
		modelID:    l.modelID,
		price:      l.price,
	}
}

func (e *CreatedEvent) Payload() map[string]any {
	return map[string]any{
		"listing_id":  e.GetAggregateID(),
		"owner_id":    e.ownerID,
		"category_id": e.categoryID,
		"make_id":     e.makeID,
		"model_id":    e.modelID,
		"price":       e.price.String(),
	}
}

type UpdatedEvent struct {
	shared.BaseEvent
	price shared.Price
}

func NewUpdatedEvent(l *Listing) *UpdatedEvent {
	return &UpdatedEvent{BaseEvent: shared.NewBaseEvent(EventUpdated, l.id), price: l.price}
}

func (e *UpdatedEvent) Payload() map[string]any {
	return map[string]any{"listing_id": e.GetAggregateID(), "price": e.price.String()}
}

type DeletedEvent struct {
	shared.BaseEvent
	ownerID string
}

func NewDeletedEvent(listingID, ownerID string) *DeletedEvent {
	return &DeletedEvent{BaseEvent: shared.NewBaseEvent(EventDeleted, listingID), ownerID: ownerID}
}

func (e *DeletedEvent) Payload() map[string]any {
	return map[string]any{"listing_id": e.GetAggregateID(), "owner_id": e.ownerID}
}

type SoldEvent struct {
	shared.BaseEvent
	ownerID string
}

func NewSoldEvent(listingID, ownerID string) *SoldEvent {
	return &SoldEvent{BaseEvent: shared.NewBaseEvent(EventSold, listingID), ownerID: ownerID}
}

func (e *SoldEvent) Payload() map[string]any {
	return map[string]any{"listing_id": e.GetAggregateID(), "owner_id": e.ownerID}
}
