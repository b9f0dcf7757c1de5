package listing

import (
	"errors"
	"reflect"
	"testing"

	"carmarket/domain/shared"
)

func validAttributes() Attributes {
	return Attributes{
		CategoryID:   "cars",
		MakeID:       "toyota",
		ModelID:      "corolla",
		Title:        "  2019 Corolla  ",
		Price:        shared.NewPrice(1250000),
		Year:         2019,
		Mileage:      35000,
		Transmission: TransmissionAutomatic,
		Condition:    ConditionUsed,
		Features:     []string{"sunroof", " abs ", "sunroof", ""},
	}
}

func TestNewListing(t *testing.T) {
	l, err := NewListing("owner-1", validAttributes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Title() != "2019 Corolla" {
		t.Errorf("title not trimmed: %q", l.Title())
	}
	if !reflect.DeepEqual(l.Features(), []string{"abs", "sunroof"}) {
		t.Errorf("features not normalized: %v", l.Features())
	}
	if l.ViewsCount() != 0 || l.FavoritesCount() != 0 || l.ReviewsCount() != 0 || l.AverageRating() != 0 {
		t.Error("counters must start at zero")
	}
	if !l.IsNew() {
		t.Error("new listing should be flagged new")
	}

	events := l.PullEvents()
	if len(events) != 1 || events[0].EventName() != EventCreated {
		t.Fatalf("expected one created event, got %v", events)
	}
	if len(l.PullEvents()) != 0 {
		t.Error("PullEvents should clear recorded events")
	}
}

func TestNewListingValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Attributes)
	}{
		{"missing model", func(a *Attributes) { a.ModelID = "" }},
		{"blank title", func(a *Attributes) { a.Title = "   " }},
		{"zero price", func(a *Attributes) { a.Price = shared.NewPrice(0) }},
		{"ancient year", func(a *Attributes) { a.Year = 1800 }},
		{"negative mileage", func(a *Attributes) { a.Mileage = -1 }},
		{"bad condition", func(a *Attributes) { a.Condition = "mint" }},
		{"bad fuel", func(a *Attributes) { a.FuelType = "steam" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := validAttributes()
			tt.mutate(&attrs)
			_, err := NewListing("owner-1", attrs)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateKeepsCounters(t *testing.T) {
	l := RebuildFromDTO(ReconstructionDTO{
		ID:             "l-1",
		OwnerID:        "owner-1",
		Attributes:     validAttributes(),
		ViewsCount:     7,
		FavoritesCount: 2,
		AverageRating:  4.5,
		ReviewsCount:   2,
		Version:        3,
	})

	attrs := l.Attributes()
	attrs.Price = shared.NewPrice(999900)
	if err := l.Update(attrs); err != nil {
		t.Fatal(err)
	}
	if l.Price().Cents() != 999900 {
		t.Errorf("price not updated")
	}
	if l.ViewsCount() != 7 || l.FavoritesCount() != 2 || l.AverageRating() != 4.5 || l.ReviewsCount() != 2 {
		t.Error("update must not touch derived counters")
	}
	if l.Version() != 3 {
		t.Error("version only moves on save")
	}
}

func TestOwnershipAndSold(t *testing.T) {
	l, err := NewListing("owner-1", validAttributes())
	if err != nil {
		t.Fatal(err)
	}
	if err := l.EnsureOwnedBy("someone-else"); !errors.Is(err, shared.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
	if err := l.EnsureOwnedBy("owner-1"); err != nil {
		t.Errorf("owner should pass: %v", err)
	}

	if err := l.MarkSold(); err != nil {
		t.Fatal(err)
	}
	if err := l.MarkSold(); !errors.Is(err, shared.ErrConflict) {
		t.Errorf("second MarkSold should conflict, got %v", err)
	}
}
