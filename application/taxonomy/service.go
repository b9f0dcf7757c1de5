// Package taxonomy 分类浏览与管理员维护
package taxonomy

import (
	"context"

	"carmarket/domain/shared"
	"carmarket/domain/taxonomy"
)

type ApplicationService struct {
	repo       taxonomy.Repository
	uowFactory shared.UnitOfWorkFactory
}

func NewApplicationService(repo taxonomy.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{repo: repo, uowFactory: uowFactory}
}

func (s *ApplicationService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = toCategoryResponse(c)
	}
	return out, nil
}

// ListMakes 分类不存在时返回 NotFound，而不是空列表
func (s *ApplicationService) ListMakes(ctx context.Context, categoryID string) ([]MakeResponse, error) {
	if _, err := s.repo.FindCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	makes, err := s.repo.ListMakes(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	out := make([]MakeResponse, len(makes))
	for i, m := range makes {
		out[i] = toMakeResponse(m)
	}
	return out, nil
}

func (s *ApplicationService) ListModels(ctx context.Context, makeID string) ([]ModelResponse, error) {
	if _, err := s.repo.FindMake(ctx, makeID); err != nil {
		return nil, err
	}
	models, err := s.repo.ListModels(ctx, makeID)
	if err != nil {
		return nil, err
	}
	out := make([]ModelResponse, len(models))
	for i, m := range models {
		out[i] = toModelResponse(m)
	}
	return out, nil
}

func (s *ApplicationService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	c, err := taxonomy.NewCategory(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	err = s.uowFactory.New().Execute(ctx, func(ctx context.Context) error {
		return s.repo.SaveCategory(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	resp := toCategoryResponse(c)
	return &resp, nil
}

func (s *ApplicationService) CreateMake(ctx context.Context, categoryID string, req CreateMakeRequest) (*MakeResponse, error) {
	m, err := shared.Transact(ctx, s.uowFactory, func(ctx context.Context) (*taxonomy.Make, error) {
		if _, err := s.repo.FindCategory(ctx, categoryID); err != nil {
			return nil, err
		}
		m, err := taxonomy.NewMake(categoryID, req.Name)
		if err != nil {
			return nil, err
		}
		return m, s.repo.SaveMake(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	resp := toMakeResponse(m)
	return &resp, nil
}

func (s *ApplicationService) CreateModel(ctx context.Context, makeID string, req CreateModelRequest) (*ModelResponse, error) {
	m, err := shared.Transact(ctx, s.uowFactory, func(ctx context.Context) (*taxonomy.VehicleModel, error) {
		if _, err := s.repo.FindMake(ctx, makeID); err != nil {
			return nil, err
		}
		m, err := taxonomy.NewVehicleModel(makeID, req.Name)
		if err != nil {
			return nil, err
		}
		return m, s.repo.SaveModel(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	resp := toModelResponse(m)
	return &resp, nil
}

func toCategoryResponse(c *taxonomy.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID(), Name: c.Name(), Slug: c.Slug()}
}

func toMakeResponse(m *taxonomy.Make) MakeResponse {
	return MakeResponse{ID: m.ID(), CategoryID: m.CategoryID(), Name: m.Name()}
}

func toModelResponse(m *taxonomy.VehicleModel) ModelResponse {
	return ModelResponse{ID: m.ID(), MakeID: m.MakeID(), Name: m.Name()}
}
