package viewing

import (
	"context"
	"testing"
	"time"

	"carmarket/domain/listing"
	"carmarket/domain/shared"
	"carmarket/infrastructure/persistence/memory"
)

func TestListAndClear(t *testing.T) {
	store := memory.NewStore()
	listings := memory.NewListingRepository(store)
	views := memory.NewViewingRepository(store)
	svc := NewApplicationService(views, listings, 10, 50)
	ctx := context.Background()

	l, err := listing.NewListing("owner-1", listing.Attributes{
		CategoryID: "cars", MakeID: "toyota", ModelID: "corolla",
		Title: "Corolla", Price: shared.NewPrice(1500000), Year: 2020, Condition: listing.ConditionUsed,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := listings.Save(ctx, l); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := views.Touch(ctx, "u-1", "gone", base); err != nil {
		t.Fatal(err)
	}
	if _, err := views.Touch(ctx, "u-1", l.ID(), base.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := views.Touch(ctx, "u-2", l.ID(), base); err != nil {
		t.Fatal(err)
	}

	page, err := svc.List(ctx, "u-1", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Fatalf("total = %d, want 2", page.Total)
	}
	if page.Items[0].ListingID != l.ID() || page.Items[0].Listing == nil {
		t.Errorf("latest view first with summary, got %+v", page.Items[0])
	}
	if page.Items[1].Listing != nil {
		t.Error("entries of removed listings carry no summary")
	}

	cleared, err := svc.Clear(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if cleared.Removed != 2 {
		t.Errorf("removed = %d, want 2", cleared.Removed)
	}
	other, err := svc.List(ctx, "u-2", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if other.Total != 1 {
		t.Error("clearing one user must not touch others")
	}
}
