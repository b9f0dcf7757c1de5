package taxonomy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"carmarket/domain/shared"
)

type stubRepo struct {
	categories map[string]*Category
	makes      map[string]*Make
	models     map[string]*VehicleModel
}

func newStubRepo() *stubRepo {
	r := &stubRepo{
		categories: map[string]*Category{},
		makes:      map[string]*Make{},
		models:     map[string]*VehicleModel{},
	}
	r.categories["cars"] = RebuildCategory("cars", "Cars", "cars")
	r.categories["bikes"] = RebuildCategory("bikes", "Motorcycles", "motorcycles")
	r.makes["toyota"] = RebuildMake("toyota", "cars", "Toyota")
	r.makes["honda"] = RebuildMake("honda", "cars", "Honda")
	r.makes["ducati"] = RebuildMake("ducati", "bikes", "Ducati")
	r.models["corolla"] = RebuildVehicleModel("corolla", "toyota", "Corolla")
	r.models["civic"] = RebuildVehicleModel("civic", "honda", "Civic")
	return r
}

func (r *stubRepo) FindCategory(_ context.Context, id string) (*Category, error) {
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, shared.NewNotFoundError("category")
}

func (r *stubRepo) FindMake(_ context.Context, id string) (*Make, error) {
	if m, ok := r.makes[id]; ok {
		return m, nil
	}
	return nil, shared.NewNotFoundError("make")
}

func (r *stubRepo) FindModel(_ context.Context, id string) (*VehicleModel, error) {
	if m, ok := r.models[id]; ok {
		return m, nil
	}
	return nil, shared.NewNotFoundError("model")
}

func (r *stubRepo) FindMakeByName(_ context.Context, categoryID, name string) (*Make, error) {
	for _, m := range r.makes {
		if strings.EqualFold(m.Name(), name) && (categoryID == "" || m.CategoryID() == categoryID) {
			return m, nil
		}
	}
	return nil, shared.NewNotFoundError("make")
}

func (r *stubRepo) FindModelByName(_ context.Context, makeID, name string) (*VehicleModel, error) {
	for _, m := range r.models {
		if strings.EqualFold(m.Name(), name) && (makeID == "" || m.MakeID() == makeID) {
			return m, nil
		}
	}
	return nil, shared.NewNotFoundError("model")
}

func (r *stubRepo) MatchMakeIDs(_ context.Context, term string) ([]string, error) {
	var ids []string
	for id, m := range r.makes {
		if strings.Contains(strings.ToLower(m.Name()), strings.ToLower(term)) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *stubRepo) MatchModelIDs(_ context.Context, term string) ([]string, error) {
	var ids []string
	for id, m := range r.models {
		if strings.Contains(strings.ToLower(m.Name()), strings.ToLower(term)) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *stubRepo) ListCategories(context.Context) ([]*Category, error)            { return nil, nil }
func (r *stubRepo) ListMakes(context.Context, string) ([]*Make, error)             { return nil, nil }
func (r *stubRepo) ListModels(context.Context, string) ([]*VehicleModel, error)    { return nil, nil }
func (r *stubRepo) SaveCategory(context.Context, *Category) error                  { return nil }
func (r *stubRepo) SaveMake(context.Context, *Make) error                          { return nil }
func (r *stubRepo) SaveModel(context.Context, *VehicleModel) error                 { return nil }

func TestResolveChain(t *testing.T) {
	resolver := NewResolver(newStubRepo())
	ctx := context.Background()

	chain, err := resolver.ResolveChain(ctx, "cars", "toyota", "corolla")
	if err != nil {
		t.Fatalf("expected valid chain, got %v", err)
	}
	if chain.Model.Name() != "Corolla" {
		t.Errorf("unexpected model %s", chain.Model.Name())
	}

	tests := []struct {
		name             string
		category, mk, md string
		mismatch         bool
		notFound         bool
	}{
		{"make in other category", "bikes", "toyota", "corolla", true, false},
		{"model in other make", "cars", "toyota", "civic", true, false},
		{"unknown category", "boats", "toyota", "corolla", false, true},
		{"unknown make", "cars", "ford", "corolla", false, true},
		{"unknown model", "cars", "toyota", "yaris", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.ResolveChain(ctx, tt.category, tt.mk, tt.md)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.mismatch {
				if !errors.Is(err, ErrMismatchedParent) {
					t.Errorf("expected ErrMismatchedParent, got %v", err)
				}
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("mismatch should be a validation error")
				}
			}
			if tt.notFound && !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestResolveModelWithoutMake(t *testing.T) {
	resolver := NewResolver(newStubRepo())
	md, err := resolver.ResolveModel(context.Background(), "", "civic")
	if err != nil {
		t.Fatalf("model lookup without make should only check existence: %v", err)
	}
	if md.MakeID() != "honda" {
		t.Errorf("unexpected make %s", md.MakeID())
	}
}

func TestMatchNames(t *testing.T) {
	resolver := NewResolver(newStubRepo())
	makeIDs, modelIDs, err := resolver.MatchNames(context.Background(), "ON")
	if err != nil {
		t.Fatal(err)
	}
	if len(makeIDs) != 1 || makeIDs[0] != "honda" {
		t.Errorf("unexpected make matches %v", makeIDs)
	}
	if len(modelIDs) != 0 {
		t.Errorf("unexpected model matches %v", modelIDs)
	}
}

func TestSlugify(t *testing.T) {
	if got := Slugify("  Sport Utility / SUV "); got != "sport-utility-suv" {
		t.Errorf("Slugify = %q", got)
	}
}
