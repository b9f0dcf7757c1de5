package shared

import (
	"context"
	"errors"
	"testing"
)

type recordingUoW struct{ executed int }

func (u *recordingUoW) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.executed++
	return fn(ctx)
}
func (u *recordingUoW) RegisterNew(AggregateRoot)     {}
func (u *recordingUoW) RegisterDirty(AggregateRoot)   {}
func (u *recordingUoW) RegisterRemoved(AggregateRoot) {}

type recordingFactory struct{ uow *recordingUoW }

func (f recordingFactory) New() UnitOfWork { return f.uow }

func TestTransact(t *testing.T) {
	f := recordingFactory{uow: &recordingUoW{}}

	n, err := Transact(context.Background(), f, func(ctx context.Context) (int, error) { return 7, nil })
	if err != nil || n != 7 {
		t.Fatalf("Transact = %d, %v", n, err)
	}

	boom := errors.New("boom")
	n, err = Transact(context.Background(), f, func(ctx context.Context) (int, error) { return 3, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("error not propagated: %v", err)
	}
	if n != 0 {
		t.Errorf("failed transaction should return zero value, got %d", n)
	}
	if f.uow.executed != 2 {
		t.Errorf("executed = %d, want 2", f.uow.executed)
	}
}
