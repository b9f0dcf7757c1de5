package gormstore

import (
	"context"
	"database/sql"
	"fmt"

	"carmarket/domain/shared"
	"carmarket/infrastructure/persistence"
	"carmarket/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// recomputeTxOptions 派生计数在 LockForUpdate 之后用普通 SELECT 全量重算。
// MySQL 默认 REPEATABLE READ 下快照固定在事务的第一次读，锁等待结束后
// COUNT/SUM 仍看不到对方已提交的评价或收藏；READ COMMITTED 每条语句取新快照。
var recomputeTxOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// UnitOfWork GORM 事务边界：开启事务、经 ctx 传递、提交前把登记聚合的事件写入发件箱
type UnitOfWork struct {
	db          *gorm.DB
	registered  []shared.AggregateRoot
	outbox      *OutboxRepository
	retryConfig retry.Config
	txOptions   *sql.TxOptions
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:          db,
		outbox:      NewOutboxRepository(db),
		retryConfig: retry.DefaultConfig,
		txOptions:   recomputeTxOptions,
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// TxOptions 开启事务使用的隔离级别
func (u *UnitOfWork) TxOptions() *sql.TxOptions {
	return u.txOptions
}

// Execute 在事务内运行 fn；可重试错误（死锁、锁超时、乐观锁冲突）重跑整个尝试。
// ctx 已带事务时直接加入，由外层负责提交。
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if persistence.TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	return retry.ExecuteWithRetry(ctx, u.retryConfig, func(ctx context.Context) error {
		return u.attempt(ctx, fn)
	})
}

func (u *UnitOfWork) attempt(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	u.registered = u.registered[:0]

	tx := u.db.WithContext(ctx).Begin(u.txOptions)
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	txCtx := persistence.ContextWithTx(ctx, tx)
	if err := fn(txCtx); err != nil {
		return err
	}
	if err := u.flushEvents(txCtx); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// flushEvents 把本次尝试登记的聚合事件写入发件箱（与业务写同一事务）
func (u *UnitOfWork) flushEvents(ctx context.Context) error {
	for _, agg := range u.registered {
		for _, event := range agg.PullEvents() {
			if err := u.outbox.SaveEvent(ctx, event); err != nil {
				return fmt.Errorf("failed to save %s event to outbox: %w", event.EventName(), err)
			}
		}
	}
	return nil
}

func (u *UnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.registered = append(u.registered, aggregate)
}

func (u *UnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.registered = append(u.registered, aggregate)
}

func (u *UnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.registered = append(u.registered, aggregate)
}

// UnitOfWorkFactory 每次用例调用取一个新的 UnitOfWork
type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
}

func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db, retryConfig: retryConfig}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db)
	uow.SetRetryConfig(f.retryConfig)
	return uow
}

var (
	_ shared.UnitOfWork        = (*UnitOfWork)(nil)
	_ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
)
