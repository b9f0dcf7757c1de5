package memory

import (
	"context"
	"fmt"

	"carmarket/domain/shared"
	"carmarket/infrastructure/persistence/retry"
)

// UnitOfWork 基于数据集副本的事务
type UnitOfWork struct {
	store       *Store
	aggregates  []shared.AggregateRoot
	retryConfig retry.Config
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store, retryConfig: retry.DefaultConfig}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// Execute 在存储锁内对数据集副本执行 fn，成功后提交
// 已处于事务中时直接加入外层事务
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	executeOnce := func(ctx context.Context) error {
		u.aggregates = u.aggregates[:0]

		u.store.mu.Lock()
		defer u.store.mu.Unlock()

		tx := &memTx{data: u.store.data.clone()}
		txCtx := context.WithValue(ctx, txKey{}, tx)

		if err := fn(txCtx); err != nil {
			return err
		}

		for _, agg := range u.aggregates {
			for _, event := range agg.PullEvents() {
				if err := shared.ValidateEvent(event); err != nil {
					return fmt.Errorf("failed to save event to outbox: %w", err)
				}
				tx.data.outbox = append(tx.data.outbox, OutboxRecord{
					AggregateID: event.GetAggregateID(),
					EventType:   event.EventName(),
					Payload:     event.Payload(),
					OccurredOn:  event.OccurredOn(),
				})
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		u.store.data = tx.data
		return nil
	}

	return retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
}

// RegisterNew registers a newly created aggregate root for event collection
func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterDirty registers a modified aggregate root for event collection
func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// RegisterRemoved registers a deleted aggregate root for event collection
func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

// UnitOfWorkFactory 每次调用创建独立的 UnitOfWork
type UnitOfWorkFactory struct {
	store       *Store
	retryConfig retry.Config
}

// NewUnitOfWorkFactory creates a factory bound to the store
func NewUnitOfWorkFactory(store *Store, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, retryConfig: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.store)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
