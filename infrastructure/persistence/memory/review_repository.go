package memory

import (
	"cmp"
	"context"
	"slices"

	"carmarket/domain/review"
	"carmarket/domain/shared"
)

type ReviewRepository struct {
	store *Store
}

func NewReviewRepository(store *Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

func (r *ReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	return r.store.write(ctx, func(d *dataset) error {
		dto := rv.ToDTO()
		if rv.IsNew() {
			for _, existing := range d.reviews {
				if existing.ReviewerID == dto.ReviewerID && existing.ListingID == dto.ListingID {
					return shared.NewConflictError("review", "you have already reviewed this listing")
				}
			}
			d.reviews[dto.ID] = dto
			rv.ClearNewFlag()
			return nil
		}

		existing, ok := d.reviews[dto.ID]
		if !ok {
			return shared.NewNotFoundError("review")
		}
		if existing.Version != dto.Version {
			return shared.NewConcurrentModificationError("review", dto.ID)
		}
		dto.Version = existing.Version + 1
		d.reviews[dto.ID] = dto
		rv.IncrementVersionForSave()
		return nil
	})
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	var out *review.Review
	err := r.store.read(ctx, func(d *dataset) error {
		dto, ok := d.reviews[id]
		if !ok {
			return shared.NewNotFoundError("review")
		}
		out = review.RebuildFromDTO(dto)
		return nil
	})
	return out, err
}

func (r *ReviewRepository) FindByReviewerAndListing(ctx context.Context, reviewerID, listingID string) (*review.Review, error) {
	var out *review.Review
	err := r.store.read(ctx, func(d *dataset) error {
		for _, dto := range d.reviews {
			if dto.ReviewerID == reviewerID && dto.ListingID == listingID {
				out = review.RebuildFromDTO(dto)
				return nil
			}
		}
		return shared.NewNotFoundError("review")
	})
	return out, err
}

func (r *ReviewRepository) ListByListing(ctx context.Context, listingID string, verifiedOnly bool, p shared.Pagination) (shared.Page[*review.Review], error) {
	var dtos []review.ReconstructionDTO
	err := r.store.read(ctx, func(d *dataset) error {
		for _, dto := range d.reviews {
			if dto.ListingID == listingID && (!verifiedOnly || dto.Verified) {
				dtos = append(dtos, dto)
			}
		}
		return nil
	})
	if err != nil {
		return shared.Page[*review.Review]{}, err
	}

	slices.SortFunc(dtos, func(a, b review.ReconstructionDTO) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	items := make([]*review.Review, len(dtos))
	for i, dto := range dtos {
		items[i] = review.RebuildFromDTO(dto)
	}
	return paginate(items, p), nil
}

func (r *ReviewRepository) VerifiedStats(ctx context.Context, listingID string) (int, int, error) {
	var sum, count int
	err := r.store.read(ctx, func(d *dataset) error {
		for _, dto := range d.reviews {
			if dto.ListingID == listingID && dto.Verified {
				sum += dto.Rating
				count++
			}
		}
		return nil
	})
	return sum, count, err
}

func (r *ReviewRepository) Remove(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.reviews[id]; !ok {
			return shared.NewNotFoundError("review")
		}
		delete(d.reviews, id)
		return nil
	})
}

func (r *ReviewRepository) RemoveByListing(ctx context.Context, listingID string) error {
	return r.store.write(ctx, func(d *dataset) error {
		for id, dto := range d.reviews {
			if dto.ListingID == listingID {
				delete(d.reviews, id)
			}
		}
		return nil
	})
}

var _ review.Repository = (*ReviewRepository)(nil)
