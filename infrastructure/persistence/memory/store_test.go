package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"carmarket/domain/favorite"
	"carmarket/domain/listing"
	"carmarket/domain/shared"
	"carmarket/domain/taxonomy"
	"carmarket/infrastructure/persistence/retry"
)

func seedListing(t *testing.T, repo *ListingRepository, title string, cents int64, createdAt time.Time) *listing.Listing {
	t.Helper()
	dto := listing.ReconstructionDTO{
		ID:      title,
		OwnerID: "owner-1",
		Attributes: listing.Attributes{
			CategoryID: "cars", MakeID: "toyota", ModelID: "corolla",
			Title: title, Price: shared.NewPrice(cents), Year: 2020, Condition: listing.ConditionUsed,
		},
		CreatedAt: createdAt,
	}
	repo.store.data.listings[dto.ID] = dto
	return listing.RebuildFromDTO(dto)
}

func TestUnitOfWorkRollback(t *testing.T) {
	store := NewStore()
	favorites := NewFavoriteRepository(store)
	uow := NewUnitOfWork(store)
	ctx := context.Background()

	boom := errors.New("boom")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if err := favorites.Add(ctx, favorite.Favorite{UserID: "u-1", ListingID: "l-1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ok, _ := favorites.Exists(ctx, "u-1", "l-1"); ok {
		t.Error("write inside a failed unit of work must be rolled back")
	}

	err = uow.Execute(ctx, func(ctx context.Context) error {
		return favorites.Add(ctx, favorite.Favorite{UserID: "u-1", ListingID: "l-1"})
	})
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := favorites.Exists(ctx, "u-1", "l-1"); !ok {
		t.Error("committed write should be visible")
	}
}

func TestUnitOfWorkWritesOutbox(t *testing.T) {
	store := NewStore()
	listings := NewListingRepository(store)
	uow := NewUnitOfWork(store)

	l, err := listing.NewListing("owner-1", listing.Attributes{
		CategoryID: "cars", MakeID: "toyota", ModelID: "corolla",
		Title: "Corolla", Price: shared.NewPrice(100), Year: 2020, Condition: listing.ConditionNew,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = uow.Execute(context.Background(), func(ctx context.Context) error {
		if err := listings.Save(ctx, l); err != nil {
			return err
		}
		uow.RegisterNew(l)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	events := store.OutboxEvents()
	if len(events) != 1 || events[0].EventType != listing.EventCreated || events[0].AggregateID != l.ID() {
		t.Fatalf("unexpected outbox: %+v", events)
	}
}

func TestListingSaveVersionConflict(t *testing.T) {
	store := NewStore()
	repo := NewListingRepository(store)
	ctx := context.Background()
	seedListing(t, repo, "a", 100, time.Now())

	first, _ := repo.FindByID(ctx, "a")
	second, _ := repo.FindByID(ctx, "a")

	if err := repo.IncrementViews(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := first.Update(first.Attributes()); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := repo.Save(ctx, second); !errors.Is(err, shared.ErrConcurrentModification) {
		t.Errorf("stale save should conflict, got %v", err)
	}

	reloaded, _ := repo.FindByID(ctx, "a")
	if reloaded.ViewsCount() != 1 {
		t.Errorf("attribute save must keep counters, views = %d", reloaded.ViewsCount())
	}
}

func TestListingSearchPagination(t *testing.T) {
	store := NewStore()
	repo := NewListingRepository(store)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"a", "b", "c", "d", "e"} {
		seedListing(t, repo, title, int64(100*(i+1)), base.Add(time.Duration(i)*time.Hour))
	}
	ctx := context.Background()

	page, err := repo.Search(ctx, listing.Filter{Sort: listing.SortNewest, Pagination: shared.Pagination{Page: 1, PerPage: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 5 || page.LastPage != 3 || len(page.Items) != 2 || page.Items[0].ID() != "e" {
		t.Errorf("unexpected first page: total=%d last=%d items=%d", page.Total, page.LastPage, len(page.Items))
	}

	past, err := repo.Search(ctx, listing.Filter{Sort: listing.SortNewest, Pagination: shared.Pagination{Page: 9, PerPage: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if len(past.Items) != 0 || past.Total != 5 || past.LastPage != 3 {
		t.Errorf("page past the end should be empty with unchanged total, got %+v", past)
	}

	huge, err := repo.Search(ctx, listing.Filter{Sort: listing.SortNewest, Pagination: shared.Pagination{Page: math.MaxInt, PerPage: 12}})
	if err != nil {
		t.Fatal(err)
	}
	if len(huge.Items) != 0 || huge.Total != 5 {
		t.Errorf("huge page number should be past the end, got %+v", huge)
	}

	lo := shared.NewPrice(200)
	hi := shared.NewPrice(400)
	ranged, err := repo.Search(ctx, listing.Filter{
		Predicates: []listing.Predicate{listing.PriceRange{Min: &lo, Max: &hi}},
		Sort:       listing.SortPriceAsc,
		Pagination: shared.Pagination{Page: 1, PerPage: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	if ranged.Total != 3 || ranged.Items[0].ID() != "b" || ranged.Items[2].ID() != "d" {
		t.Errorf("price range search returned %d items", ranged.Total)
	}
}

func TestTaxonomyNameLookups(t *testing.T) {
	store := NewStore()
	repo := NewTaxonomyRepository(store)
	ctx := context.Background()

	for _, err := range []error{
		repo.SaveCategory(ctx, taxonomy.RebuildCategory("cars", "Cars", "cars")),
		repo.SaveMake(ctx, taxonomy.RebuildMake("toyota", "cars", "Toyota")),
		repo.SaveModel(ctx, taxonomy.RebuildVehicleModel("corolla", "toyota", "Corolla")),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}

	mk, err := repo.FindMakeByName(ctx, "cars", "TOYOTA")
	if err != nil || mk.ID() != "toyota" {
		t.Errorf("case-insensitive lookup failed: %v", err)
	}
	if _, err := repo.FindMakeByName(ctx, "bikes", "Toyota"); !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("lookup outside category should be not found, got %v", err)
	}
	ids, _ := repo.MatchModelIDs(ctx, "roll")
	if len(ids) != 1 || ids[0] != "corolla" {
		t.Errorf("MatchModelIDs = %v", ids)
	}
	if err := repo.SaveMake(ctx, taxonomy.RebuildMake("toyota-2", "cars", "toyota")); !errors.Is(err, shared.ErrConflict) {
		t.Errorf("duplicate make name should conflict, got %v", err)
	}
}

func TestFactoryCreatesIndependentUnits(t *testing.T) {
	f := NewUnitOfWorkFactory(NewStore(), retry.DefaultConfig)
	if f.New() == f.New() {
		t.Error("factory must return a fresh unit of work per call")
	}
}
