package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"carmarket/domain/shared"
	"carmarket/domain/viewing"
)

type ViewingRepository struct {
	store *Store
}

func NewViewingRepository(store *Store) *ViewingRepository {
	return &ViewingRepository{store: store}
}

func (r *ViewingRepository) Touch(ctx context.Context, userID, listingID string, at time.Time) (bool, error) {
	var inserted bool
	err := r.store.write(ctx, func(d *dataset) error {
		key := pairKey{userID, listingID}
		_, existed := d.views[key]
		inserted = !existed
		d.views[key] = viewing.Entry{UserID: userID, ListingID: listingID, ViewedAt: at}
		return nil
	})
	return inserted, err
}

func (r *ViewingRepository) ListByUser(ctx context.Context, userID string, p shared.Pagination) (shared.Page[viewing.Entry], error) {
	var items []viewing.Entry
	err := r.store.read(ctx, func(d *dataset) error {
		for key, e := range d.views {
			if key.userID == userID {
				items = append(items, e)
			}
		}
		return nil
	})
	if err != nil {
		return shared.Page[viewing.Entry]{}, err
	}
	slices.SortFunc(items, func(a, b viewing.Entry) int {
		if c := b.ViewedAt.Compare(a.ViewedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ListingID, a.ListingID)
	})
	return paginate(items, p), nil
}

func (r *ViewingRepository) ClearByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.store.write(ctx, func(d *dataset) error {
		for key := range d.views {
			if key.userID == userID {
				delete(d.views, key)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ViewingRepository) RemoveByListing(ctx context.Context, listingID string) error {
	return r.store.write(ctx, func(d *dataset) error {
		for key := range d.views {
			if key.listingID == listingID {
				delete(d.views, key)
			}
		}
		return nil
	})
}

var _ viewing.Repository = (*ViewingRepository)(nil)
