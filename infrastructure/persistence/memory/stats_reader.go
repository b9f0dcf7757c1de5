package memory

import (
	"context"

	"carmarket/domain/stats"
	"carmarket/domain/taxonomy"
)

// StatsReader 汇总查询
type StatsReader struct {
	store *Store
}

func NewStatsReader(store *Store) *StatsReader {
	return &StatsReader{store: store}
}

func (r *StatsReader) CountListings(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.read(ctx, func(d *dataset) error {
		n = int64(len(d.listings))
		return nil
	})
	return n, err
}

func (r *StatsReader) CountSold(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.read(ctx, func(d *dataset) error {
		for _, dto := range d.listings {
			if dto.Sold {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *StatsReader) CountDealers(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.read(ctx, func(d *dataset) error {
		n = int64(len(d.dealers))
		return nil
	})
	return n, err
}

func (r *StatsReader) CountDistinctUsers(ctx context.Context) (int64, error) {
	users := make(map[string]struct{})
	err := r.store.read(ctx, func(d *dataset) error {
		for _, dto := range d.listings {
			users[dto.OwnerID] = struct{}{}
		}
		for _, dto := range d.reviews {
			users[dto.ReviewerID] = struct{}{}
		}
		for key := range d.favorites {
			users[key.userID] = struct{}{}
		}
		for key := range d.views {
			users[key.userID] = struct{}{}
		}
		for _, dto := range d.dealers {
			users[dto.UserID] = struct{}{}
		}
		return nil
	})
	return int64(len(users)), err
}

func (r *StatsReader) AverageVerifiedRating(ctx context.Context) (float64, int64, error) {
	var sum, count int64
	err := r.store.read(ctx, func(d *dataset) error {
		for _, dto := range d.reviews {
			if dto.Verified {
				sum += int64(dto.Rating)
				count++
			}
		}
		return nil
	})
	if err != nil || count == 0 {
		return 0, count, err
	}
	return float64(sum) / float64(count), count, nil
}

func (r *StatsReader) CountByCategories(ctx context.Context) ([]stats.CategoryCount, error) {
	var out []stats.CategoryCount
	err := r.store.read(ctx, func(d *dataset) error {
		counts := make(map[string]int64, len(d.categories))
		for _, dto := range d.listings {
			counts[dto.Attributes.CategoryID]++
		}
		for _, c := range sortedByName(d.categories, (*taxonomy.Category).Name, (*taxonomy.Category).ID) {
			out = append(out, stats.CategoryCount{CategoryID: c.ID(), Name: c.Name(), ListingsCount: counts[c.ID()]})
		}
		return nil
	})
	return out, err
}

var _ stats.Reader = (*StatsReader)(nil)
