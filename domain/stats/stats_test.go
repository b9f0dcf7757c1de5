package stats

import (
	"context"
	"errors"
	"testing"
)

type fakeReader struct {
	avg   float64
	count int64
	err   error
}

func (f fakeReader) CountListings(context.Context) (int64, error)      { return 10, f.err }
func (f fakeReader) CountSold(context.Context) (int64, error)          { return 3, nil }
func (f fakeReader) CountDealers(context.Context) (int64, error)       { return 2, nil }
func (f fakeReader) CountDistinctUsers(context.Context) (int64, error) { return 7, nil }
func (f fakeReader) AverageVerifiedRating(context.Context) (float64, int64, error) {
	return f.avg, f.count, nil
}
func (f fakeReader) CountByCategories(context.Context) ([]CategoryCount, error) { return nil, nil }

func TestSatisfactionRate(t *testing.T) {
	tests := []struct {
		avg   float64
		count int64
		want  int
	}{
		{0, 0, 95},
		{4.5, 2, 90},
		{4.26, 5, 85},
		{5, 1, 100},
		{1, 1, 20},
	}
	for _, tt := range tests {
		if got := SatisfactionRate(tt.avg, tt.count); got != tt.want {
			t.Errorf("SatisfactionRate(%v, %d) = %d, want %d", tt.avg, tt.count, got, tt.want)
		}
	}
}

func TestComputeLanding(t *testing.T) {
	got, err := ComputeLanding(context.Background(), fakeReader{})
	if err != nil {
		t.Fatal(err)
	}
	want := LandingStats{TotalListings: 10, TotalUsers: 7, CompletedDeals: 3, TotalDealers: 2, SatisfactionRate: 95}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	boom := errors.New("boom")
	if _, err := ComputeLanding(context.Background(), fakeReader{err: boom}); !errors.Is(err, boom) {
		t.Errorf("expected reader error, got %v", err)
	}
}
