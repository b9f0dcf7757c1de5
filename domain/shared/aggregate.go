package shared

// AggregateRoot 聚合根接口
// 聚合根维护一致性边界，记录领域事件，由 UnitOfWork 在提交前写入 outbox
type AggregateRoot interface {
	// ID 返回聚合根的全局唯一标识
	ID() string

	// Version 返回当前版本号，用于乐观锁并发控制
	Version() int

	// PullEvents 获取并清空聚合根记录的领域事件
	PullEvents() []DomainEvent
}

// Entity 实体接口，通过标识判断相等性
type Entity interface {
	ID() string
}

// EventRecorder 可嵌入聚合根的事件记录器
type EventRecorder struct {
	events []DomainEvent
}

// Record 记录一个领域事件
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// PullEvents 返回并清空已记录的事件
func (r *EventRecorder) PullEvents() []DomainEvent {
	events := make([]DomainEvent, len(r.events))
	copy(events, r.events)
	r.events = nil
	return events
}
