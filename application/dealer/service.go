// Package dealer 经销商档案用例
package dealer

import (
	"context"

	"carmarket/domain/dealer"
	"carmarket/domain/shared"
)

type ApplicationService struct {
	repo       dealer.Repository
	uowFactory shared.UnitOfWorkFactory
	perPage    int
	maxPerPage int
}

func NewApplicationService(repo dealer.Repository, uowFactory shared.UnitOfWorkFactory, perPage, maxPerPage int) *ApplicationService {
	return &ApplicationService{repo: repo, uowFactory: uowFactory, perPage: perPage, maxPerPage: maxPerPage}
}

// Create 同一用户已有档案时返回 Conflict
func (s *ApplicationService) Create(ctx context.Context, userID string, req CreateDealerRequest) (*DealerResponse, error) {
	d, err := dealer.NewDealer(userID, dealer.Profile{
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		CityID:      req.CityID,
	})
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.repo.Save(ctx, d); err != nil {
			return err
		}
		uow.RegisterNew(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(d), nil
}

func (s *ApplicationService) Get(ctx context.Context, id string) (*DealerResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(d), nil
}

// List 精选经销商优先
func (s *ApplicationService) List(ctx context.Context, page, perPage int) (shared.Page[DealerResponse], error) {
	p := shared.NewPagination(page, perPage, s.perPage, s.maxPerPage)
	result, err := s.repo.List(ctx, p)
	if err != nil {
		return shared.Page[DealerResponse]{}, err
	}
	return shared.MapPage(result, func(d *dealer.Dealer) DealerResponse { return *toResponse(d) }), nil
}

func (s *ApplicationService) Update(ctx context.Context, userID, id string, req UpdateDealerRequest) (*DealerResponse, error) {
	var d *dealer.Dealer
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if d, err = s.repo.FindByID(ctx, id); err != nil {
			return err
		}
		if err := d.EnsureOwnedBy(userID); err != nil {
			return err
		}

		p := d.Profile()
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Phone != nil {
			p.Phone = *req.Phone
		}
		if req.CityID != nil {
			p.CityID = *req.CityID
		}
		if err := d.Update(p); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, d); err != nil {
			return err
		}
		uow.RegisterDirty(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResponse(d), nil
}

// Delete 档案所有者或管理员可删除
func (s *ApplicationService) Delete(ctx context.Context, userID string, isAdmin bool, id string) error {
	uow := s.uowFactory.New()
	return uow.Execute(ctx, func(ctx context.Context) error {
		d, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !isAdmin {
			if err := d.EnsureOwnedBy(userID); err != nil {
				return err
			}
		}
		if err := s.repo.Remove(ctx, id); err != nil {
			return err
		}
		d.MarkRemoved()
		uow.RegisterRemoved(d)
		return nil
	})
}

func toResponse(d *dealer.Dealer) *DealerResponse {
	return &DealerResponse{
		ID:           d.ID(),
		UserID:       d.UserID(),
		Name:         d.Name(),
		Description:  d.Description(),
		Phone:        d.Phone(),
		CityID:       d.CityID(),
		Rating:       d.Rating(),
		ReviewsCount: d.ReviewsCount(),
		Verified:     d.IsVerified(),
		Featured:     d.IsFeatured(),
		CreatedAt:    d.CreatedAt(),
		UpdatedAt:    d.UpdatedAt(),
	}
}
