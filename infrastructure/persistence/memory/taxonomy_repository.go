package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"carmarket/domain/shared"
	"carmarket/domain/taxonomy"
)

type TaxonomyRepository struct {
	store *Store
}

func NewTaxonomyRepository(store *Store) *TaxonomyRepository {
	return &TaxonomyRepository{store: store}
}

func (r *TaxonomyRepository) FindCategory(ctx context.Context, id string) (*taxonomy.Category, error) {
	var out *taxonomy.Category
	err := r.store.read(ctx, func(d *dataset) error {
		c, ok := d.categories[id]
		if !ok {
			return shared.NewNotFoundError("category")
		}
		out = c
		return nil
	})
	return out, err
}

func (r *TaxonomyRepository) FindMake(ctx context.Context, id string) (*taxonomy.Make, error) {
	var out *taxonomy.Make
	err := r.store.read(ctx, func(d *dataset) error {
		m, ok := d.makes[id]
		if !ok {
			return shared.NewNotFoundError("make")
		}
		out = m
		return nil
	})
	return out, err
}

func (r *TaxonomyRepository) FindModel(ctx context.Context, id string) (*taxonomy.VehicleModel, error) {
	var out *taxonomy.VehicleModel
	err := r.store.read(ctx, func(d *dataset) error {
		m, ok := d.models[id]
		if !ok {
			return shared.NewNotFoundError("model")
		}
		out = m
		return nil
	})
	return out, err
}

func (r *TaxonomyRepository) FindMakeByName(ctx context.Context, categoryID, name string) (*taxonomy.Make, error) {
	var out *taxonomy.Make
	err := r.store.read(ctx, func(d *dataset) error {
		for _, m := range sortedByName(d.makes, (*taxonomy.Make).Name, (*taxonomy.Make).ID) {
			if (categoryID == "" || m.CategoryID() == categoryID) && strings.EqualFold(m.Name(), name) {
				out = m
				return nil
			}
		}
		return shared.NewNotFoundError("make")
	})
	return out, err
}

func (r *TaxonomyRepository) FindModelByName(ctx context.Context, makeID, name string) (*taxonomy.VehicleModel, error) {
	var out *taxonomy.VehicleModel
	err := r.store.read(ctx, func(d *dataset) error {
		for _, m := range sortedByName(d.models, (*taxonomy.VehicleModel).Name, (*taxonomy.VehicleModel).ID) {
			if (makeID == "" || m.MakeID() == makeID) && strings.EqualFold(m.Name(), name) {
				out = m
				return nil
			}
		}
		return shared.NewNotFoundError("model")
	})
	return out, err
}

func (r *TaxonomyRepository) MatchMakeIDs(ctx context.Context, term string) ([]string, error) {
	term = strings.ToLower(term)
	var ids []string
	err := r.store.read(ctx, func(d *dataset) error {
		for id, m := range d.makes {
			if strings.Contains(strings.ToLower(m.Name()), term) {
				ids = append(ids, id)
			}
		}
		return nil
	})
	slices.Sort(ids)
	return ids, err
}

func (r *TaxonomyRepository) MatchModelIDs(ctx context.Context, term string) ([]string, error) {
	term = strings.ToLower(term)
	var ids []string
	err := r.store.read(ctx, func(d *dataset) error {
		for id, m := range d.models {
			if strings.Contains(strings.ToLower(m.Name()), term) {
				ids = append(ids, id)
			}
		}
		return nil
	})
	slices.Sort(ids)
	return ids, err
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context) ([]*taxonomy.Category, error) {
	var out []*taxonomy.Category
	err := r.store.read(ctx, func(d *dataset) error {
		out = sortedByName(d.categories, (*taxonomy.Category).Name, (*taxonomy.Category).ID)
		return nil
	})
	return out, err
}

func (r *TaxonomyRepository) ListMakes(ctx context.Context, categoryID string) ([]*taxonomy.Make, error) {
	var out []*taxonomy.Make
	err := r.store.read(ctx, func(d *dataset) error {
		for _, m := range sortedByName(d.makes, (*taxonomy.Make).Name, (*taxonomy.Make).ID) {
			if m.CategoryID() == categoryID {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, err
}

func (r *TaxonomyRepository) ListModels(ctx context.Context, makeID string) ([]*taxonomy.VehicleModel, error) {
	var out []*taxonomy.VehicleModel
	err := r.store.read(ctx, func(d *dataset) error {
		for _, m := range sortedByName(d.models, (*taxonomy.VehicleModel).Name, (*taxonomy.VehicleModel).ID) {
			if m.MakeID() == makeID {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, err
}

func (r *TaxonomyRepository) SaveCategory(ctx context.Context, c *taxonomy.Category) error {
	return r.store.write(ctx, func(d *dataset) error {
		for _, existing := range d.categories {
			if existing.ID() != c.ID() && existing.Slug() == c.Slug() {
				return shared.NewConflictError("category", "category slug already exists")
			}
		}
		d.categories[c.ID()] = c
		return nil
	})
}

func (r *TaxonomyRepository) SaveMake(ctx context.Context, m *taxonomy.Make) error {
	return r.store.write(ctx, func(d *dataset) error {
		for _, existing := range d.makes {
			if existing.ID() != m.ID() && existing.CategoryID() == m.CategoryID() && strings.EqualFold(existing.Name(), m.Name()) {
				return shared.NewConflictError("make", "make already exists in this category")
			}
		}
		d.makes[m.ID()] = m
		return nil
	})
}

func (r *TaxonomyRepository) SaveModel(ctx context.Context, m *taxonomy.VehicleModel) error {
	return r.store.write(ctx, func(d *dataset) error {
		for _, existing := range d.models {
			if existing.ID() != m.ID() && existing.MakeID() == m.MakeID() && strings.EqualFold(existing.Name(), m.Name()) {
				return shared.NewConflictError("model", "model already exists for this make")
			}
		}
		d.models[m.ID()] = m
		return nil
	})
}

// sortedByName 按名称排序，名称相同时按 ID
func sortedByName[T any](m map[string]T, name, id func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int {
		if c := cmp.Compare(name(a), name(b)); c != 0 {
			return c
		}
		return cmp.Compare(id(a), id(b))
	})
	return out
}

var _ taxonomy.Repository = (*TaxonomyRepository)(nil)
