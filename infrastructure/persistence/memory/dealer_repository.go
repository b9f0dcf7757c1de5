package memory

import (
	"cmp"
	"context"
	"slices"

	"carmarket/domain/dealer"
	"carmarket/domain/shared"
)

type DealerRepository struct {
	store *Store
}

func NewDealerRepository(store *Store) *DealerRepository {
	return &DealerRepository{store: store}
}

func (r *DealerRepository) Save(ctx context.Context, dl *dealer.Dealer) error {
	return r.store.write(ctx, func(d *dataset) error {
		dto := dl.ToDTO()
		if dl.IsNew() {
			for _, existing := range d.dealers {
				if existing.UserID == dto.UserID {
					return shared.NewConflictError("dealer", "user already has a dealer profile")
				}
			}
			d.dealers[dto.ID] = dto
			dl.ClearNewFlag()
			return nil
		}

		existing, ok := d.dealers[dto.ID]
		if !ok {
			return shared.NewNotFoundError("dealer")
		}
		if existing.Version != dto.Version {
			return shared.NewConcurrentModificationError("dealer", dto.ID)
		}
		dto.Version = existing.Version + 1
		d.dealers[dto.ID] = dto
		dl.IncrementVersionForSave()
		return nil
	})
}

func (r *DealerRepository) FindByID(ctx context.Context, id string) (*dealer.Dealer, error) {
	var out *dealer.Dealer
	err := r.store.read(ctx, func(d *dataset) error {
		dto, ok := d.dealers[id]
		if !ok {
			return shared.NewNotFoundError("dealer")
		}
		out = dealer.RebuildFromDTO(dto)
		return nil
	})
	return out, err
}

func (r *DealerRepository) FindByUserID(ctx context.Context, userID string) (*dealer.Dealer, error) {
	var out *dealer.Dealer
	err := r.store.read(ctx, func(d *dataset) error {
		for _, dto := range d.dealers {
			if dto.UserID == userID {
				out = dealer.RebuildFromDTO(dto)
				return nil
			}
		}
		return shared.NewNotFoundError("dealer")
	})
	return out, err
}

func (r *DealerRepository) List(ctx context.Context, p shared.Pagination) (shared.Page[*dealer.Dealer], error) {
	var dtos []dealer.ReconstructionDTO
	err := r.store.read(ctx, func(d *dataset) error {
		for _, dto := range d.dealers {
			dtos = append(dtos, dto)
		}
		return nil
	})
	if err != nil {
		return shared.Page[*dealer.Dealer]{}, err
	}

	slices.SortFunc(dtos, func(a, b dealer.ReconstructionDTO) int {
		if a.Featured != b.Featured {
			if a.Featured {
				return -1
			}
			return 1
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	items := make([]*dealer.Dealer, len(dtos))
	for i, dto := range dtos {
		items[i] = dealer.RebuildFromDTO(dto)
	}
	return paginate(items, p), nil
}

func (r *DealerRepository) Remove(ctx context.Context, id string) error {
	return r.store.write(ctx, func(d *dataset) error {
		if _, ok := d.dealers[id]; !ok {
			return shared.NewNotFoundError("dealer")
		}
		delete(d.dealers, id)
		return nil
	})
}

func (r *DealerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.read(ctx, func(d *dataset) error {
		n = int64(len(d.dealers))
		return nil
	})
	return n, err
}

var _ dealer.Repository = (*DealerRepository)(nil)
