package memory

import (
	"cmp"
	"context"
	"slices"

	"carmarket/domain/favorite"
	"carmarket/domain/shared"
)

type FavoriteRepository struct {
	store *Store
}

func NewFavoriteRepository(store *Store) *FavoriteRepository {
	return &FavoriteRepository{store: store}
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	var ok bool
	err := r.store.read(ctx, func(d *dataset) error {
		_, ok = d.favorites[pairKey{userID, listingID}]
		return nil
	})
	return ok, err
}

func (r *FavoriteRepository) Add(ctx context.Context, f favorite.Favorite) error {
	return r.store.write(ctx, func(d *dataset) error {
		key := pairKey{f.UserID, f.ListingID}
		if _, ok := d.favorites[key]; ok {
			return shared.NewConflictError("favorite", "listing is already in favorites")
		}
		d.favorites[key] = f
		return nil
	})
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) (bool, error) {
	var removed bool
	err := r.store.write(ctx, func(d *dataset) error {
		key := pairKey{userID, listingID}
		if _, removed = d.favorites[key]; removed {
			delete(d.favorites, key)
		}
		return nil
	})
	return removed, err
}

func (r *FavoriteRepository) CountByListing(ctx context.Context, listingID string) (int, error) {
	var n int
	err := r.store.read(ctx, func(d *dataset) error {
		for key := range d.favorites {
			if key.listingID == listingID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string, p shared.Pagination) (shared.Page[favorite.Favorite], error) {
	var items []favorite.Favorite
	err := r.store.read(ctx, func(d *dataset) error {
		for key, f := range d.favorites {
			if key.userID == userID {
				items = append(items, f)
			}
		}
		return nil
	})
	if err != nil {
		return shared.Page[favorite.Favorite]{}, err
	}
	slices.SortFunc(items, func(a, b favorite.Favorite) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ListingID, a.ListingID)
	})
	return paginate(items, p), nil
}

func (r *FavoriteRepository) RemoveByListing(ctx context.Context, listingID string) error {
	return r.store.write(ctx, func(d *dataset) error {
		for key := range d.favorites {
			if key.listingID == listingID {
				delete(d.favorites, key)
			}
		}
		return nil
	})
}

var _ favorite.Repository = (*FavoriteRepository)(nil)
