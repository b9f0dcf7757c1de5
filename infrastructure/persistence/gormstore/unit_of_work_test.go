package gormstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"carmarket/infrastructure/persistence"
	"carmarket/infrastructure/persistence/retry"
)

// 两个事务并发审核同一 listing 的不同评价：后提交者在 LockForUpdate 之后的
// COUNT/SUM 必须看到先提交者的行，因此事务不能沿用 REPEATABLE READ 的首读快照。
func TestUnitOfWorkBeginsReadCommitted(t *testing.T) {
	uow, ok := NewUnitOfWorkFactory(dryRunDB(t), retry.DefaultConfig).New().(*UnitOfWork)
	if !ok {
		t.Fatal("factory should build *UnitOfWork")
	}
	opts := uow.TxOptions()
	if opts == nil || opts.Isolation != sql.LevelReadCommitted {
		t.Fatalf("isolation = %+v, want READ COMMITTED", opts)
	}
	if opts.ReadOnly {
		t.Error("use-case transactions write counters")
	}
}

func TestNestedExecuteJoinsOuterTransaction(t *testing.T) {
	db := dryRunDB(t)
	uow := NewUnitOfWork(db)
	outer := persistence.ContextWithTx(context.Background(), db)

	calls := 0
	boom := errors.New("boom")
	err := uow.Execute(outer, func(ctx context.Context) error {
		calls++
		if persistence.TxFromContext(ctx) != db {
			t.Error("nested unit should reuse the outer transaction")
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error not propagated: %v", err)
	}
	if calls != 1 {
		t.Errorf("nested unit must not retry on its own, calls = %d", calls)
	}
}
