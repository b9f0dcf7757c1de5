// Package viewing 最近浏览列表与清空
package viewing

import (
	"context"
	"errors"
	"time"

	applisting "carmarket/application/listing"
	"carmarket/domain/listing"
	"carmarket/domain/shared"
	"carmarket/domain/viewing"
)

type EntryResponse struct {
	ListingID string                      `json:"listing_id"`
	ViewedAt  time.Time                   `json:"viewed_at"`
	Listing   *applisting.ListingResponse `json:"listing"`
}

type ClearResponse struct {
	Removed int64 `json:"removed"`
}

type ApplicationService struct {
	views      viewing.Repository
	listings   listing.Repository
	perPage    int
	maxPerPage int
}

func NewApplicationService(views viewing.Repository, listings listing.Repository, perPage, maxPerPage int) *ApplicationService {
	return &ApplicationService{views: views, listings: listings, perPage: perPage, maxPerPage: maxPerPage}
}

// List 按最近浏览时间倒序
func (s *ApplicationService) List(ctx context.Context, userID string, page, perPage int) (shared.Page[EntryResponse], error) {
	p := shared.NewPagination(page, perPage, s.perPage, s.maxPerPage)
	result, err := s.views.ListByUser(ctx, userID, p)
	if err != nil {
		return shared.Page[EntryResponse]{}, err
	}

	items := make([]EntryResponse, len(result.Items))
	for i, e := range result.Items {
		items[i] = EntryResponse{ListingID: e.ListingID, ViewedAt: e.ViewedAt}
		l, err := s.listings.FindByID(ctx, e.ListingID)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return shared.Page[EntryResponse]{}, err
		}
		summary := applisting.ToResponse(l)
		items[i].Listing = &summary
	}
	return shared.Page[EntryResponse]{
		Items:    items,
		Page:     result.Page,
		PerPage:  result.PerPage,
		Total:    result.Total,
		LastPage: result.LastPage,
	}, nil
}

// Clear 清空当前用户的浏览记录，不影响 views_count
func (s *ApplicationService) Clear(ctx context.Context, userID string) (*ClearResponse, error) {
	n, err := s.views.ClearByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ClearResponse{Removed: n}, nil
}
