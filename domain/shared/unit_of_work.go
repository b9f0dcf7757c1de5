package shared

import "context"

// UnitOfWork 一次用例调用的事务边界。
// Execute 内的仓储调用经 ctx 共用同一事务；嵌套 Execute 加入外层事务。
// 提交成功后，登记过的聚合上记录的事件写入发件箱。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
	RegisterRemoved(aggregate AggregateRoot)
}

// UnitOfWorkFactory 每次用例调用取一个新的 UnitOfWork
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository 在同一事务内落库领域事件
type OutboxRepository interface {
	SaveEvent(ctx context.Context, event DomainEvent) error
}

// Transact 在新事务中执行 fn 并返回其结果；出错时返回零值
func Transact[T any](ctx context.Context, f UnitOfWorkFactory, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := f.New().Execute(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
