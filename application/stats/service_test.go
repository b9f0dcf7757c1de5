package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"carmarket/domain/listing"
	"carmarket/domain/review"
	"carmarket/domain/shared"
	"carmarket/domain/taxonomy"
	"carmarket/infrastructure/cache"
	"carmarket/infrastructure/persistence/memory"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	svc      *ApplicationService
	clock    *clock
	listings *memory.ListingRepository
	reviews  *memory.ReviewRepository
	taxonomy *memory.TaxonomyRepository
}

const ttl = 6 * time.Hour

func newFixture() *fixture {
	store := memory.NewStore()
	clk := &clock{now: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}
	statsCache := cache.NewStatsCache(cache.NewMemoryBackend(clk.Now), "stats", cache.WithClock(clk.Now))
	return &fixture{
		svc:      NewApplicationService(memory.NewStatsReader(store), statsCache, func(string) time.Duration { return ttl }),
		clock:    clk,
		listings: memory.NewListingRepository(store),
		reviews:  memory.NewReviewRepository(store),
		taxonomy: memory.NewTaxonomyRepository(store),
	}
}

func (f *fixture) addListing(t *testing.T, owner, categoryID string) *listing.Listing {
	t.Helper()
	l, err := listing.NewListing(owner, listing.Attributes{
		CategoryID: categoryID, MakeID: "mk", ModelID: "md",
		Title: "Listing", Price: shared.NewPrice(100000), Year: 2021, Condition: listing.ConditionNew,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.listings.Save(context.Background(), l); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestLandingSatisfactionFallback(t *testing.T) {
	f := newFixture()
	f.addListing(t, "owner-1", "cars")

	got, err := f.svc.Landing(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.SatisfactionRate != 95 {
		t.Errorf("satisfaction_rate = %d, want 95 without verified reviews", got.SatisfactionRate)
	}
	if got.TotalListings != 1 || got.TotalUsers != 1 {
		t.Errorf("unexpected landing stats %+v", got.LandingStats)
	}
}

func TestLandingSatisfactionFromVerifiedReviews(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	l := f.addListing(t, "owner-1", "cars")

	for i, rating := range []int{4, 5} {
		r, err := review.NewReview(l.ID(), []string{"u-1", "u-2"}[i], review.Content{Rating: rating})
		if err != nil {
			t.Fatal(err)
		}
		r.Verify()
		if err := f.reviews.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := f.svc.Landing(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.SatisfactionRate != 90 {
		t.Errorf("satisfaction_rate = %d, want 90", got.SatisfactionRate)
	}
	if got.TotalUsers != 3 {
		t.Errorf("total_users = %d, want 3", got.TotalUsers)
	}
}

func TestLandingReflectsMutationsAfterExpiry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addListing(t, "owner-1", "cars")

	first, err := f.svc.Landing(ctx)
	if err != nil {
		t.Fatal(err)
	}
	f.addListing(t, "owner-2", "cars")

	f.clock.Advance(ttl - time.Minute)
	cached, err := f.svc.Landing(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if cached.TotalListings != 1 || !cached.ComputedAt.Equal(first.ComputedAt) {
		t.Errorf("within ttl the snapshot is reused, got %+v", cached)
	}

	f.clock.Advance(2 * time.Minute)
	fresh, err := f.svc.Landing(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.TotalListings != 2 {
		t.Errorf("after expiry total_listings = %d, want 2", fresh.TotalListings)
	}
	if !fresh.ComputedAt.After(first.ComputedAt) {
		t.Error("computed_at should move forward after recompute")
	}
}

func TestInvalidateForcesRecompute(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Landing(ctx); err != nil {
		t.Fatal(err)
	}
	f.addListing(t, "owner-1", "cars")

	resp, err := f.svc.Invalidate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Keys) != 2 {
		t.Errorf("invalidate all should report both keys, got %v", resp.Keys)
	}
	got, err := f.svc.Landing(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalListings != 1 {
		t.Errorf("total_listings = %d after invalidate", got.TotalListings)
	}
}

func TestCategoriesIncludeEmptyOnes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	vans, _ := taxonomy.NewCategory("Vans", "")
	cars, _ := taxonomy.NewCategory("Cars", "")
	for _, c := range []*taxonomy.Category{vans, cars} {
		if err := f.taxonomy.SaveCategory(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	f.addListing(t, "owner-1", cars.ID())
	f.addListing(t, "owner-1", cars.ID())

	got, err := f.svc.Categories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Categories) != 2 {
		t.Fatalf("expected both categories, got %+v", got.Categories)
	}
	if got.Categories[0].Name != "Cars" || got.Categories[0].ListingsCount != 2 {
		t.Errorf("first = %+v", got.Categories[0])
	}
	if got.Categories[1].Name != "Vans" || got.Categories[1].ListingsCount != 0 {
		t.Errorf("second = %+v", got.Categories[1])
	}
}
