package dealer

import (
	"context"
	"errors"
	"testing"

	"carmarket/domain/shared"
	"carmarket/infrastructure/persistence/memory"
	"carmarket/infrastructure/persistence/retry"
)

func newService() *ApplicationService {
	store := memory.NewStore()
	return NewApplicationService(memory.NewDealerRepository(store), memory.NewUnitOfWorkFactory(store, retry.DefaultConfig), 10, 50)
}

func TestDealerLifecycle(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "u-1", CreateDealerRequest{Name: "Best Motors", Phone: "555"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, "u-1", CreateDealerRequest{Name: "Second"}); !errors.Is(err, shared.ErrConflict) {
		t.Fatalf("one profile per user, got %v", err)
	}

	name := "Better Motors"
	if _, err := svc.Update(ctx, "u-2", created.ID, UpdateDealerRequest{Name: &name}); !errors.Is(err, shared.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	updated, err := svc.Update(ctx, "u-1", created.ID, UpdateDealerRequest{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != name || updated.Phone != "555" {
		t.Errorf("unexpected update %+v", updated)
	}

	page, err := svc.List(ctx, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].ID != created.ID {
		t.Errorf("unexpected list %+v", page)
	}

	if err := svc.Delete(ctx, "u-2", false, created.ID); !errors.Is(err, shared.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, "admin", true, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newService()
	if _, err := svc.Create(context.Background(), "u-1", CreateDealerRequest{Name: "  "}); !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("expected validation error, got %v", err)
	}
}
