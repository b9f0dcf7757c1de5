// Package favorite 收藏切换与我的收藏
package favorite

import (
	"context"
	"errors"
	"time"

	applisting "carmarket/application/listing"
	"carmarket/domain/aggregation"
	"carmarket/domain/favorite"
	"carmarket/domain/listing"
	"carmarket/domain/shared"
)

// ToggleResponse 切换后的收藏状态与信息的实时收藏数
type ToggleResponse struct {
	Favorited      bool `json:"favorited"`
	FavoritesCount int  `json:"favorites_count"`
}

// FavoriteResponse 我的收藏条目
type FavoriteResponse struct {
	ListingID string                      `json:"listing_id"`
	CreatedAt time.Time                   `json:"created_at"`
	Listing   *applisting.ListingResponse `json:"listing"`
}

type ApplicationService struct {
	favorites  favorite.Repository
	listings   listing.Repository
	engine     *aggregation.Engine
	uowFactory shared.UnitOfWorkFactory
	perPage    int
	maxPerPage int
}

func NewApplicationService(
	favorites favorite.Repository,
	listings listing.Repository,
	engine *aggregation.Engine,
	uowFactory shared.UnitOfWorkFactory,
	perPage, maxPerPage int,
) *ApplicationService {
	return &ApplicationService{
		favorites:  favorites,
		listings:   listings,
		engine:     engine,
		uowFactory: uowFactory,
		perPage:    perPage,
		maxPerPage: maxPerPage,
	}
}

// Toggle 已收藏则取消，否则收藏；同一事务内重算 favorites_count
func (s *ApplicationService) Toggle(ctx context.Context, userID, listingID string) (*ToggleResponse, error) {
	resp, err := shared.Transact(ctx, s.uowFactory, func(ctx context.Context) (*ToggleResponse, error) {
		if _, err := s.listings.FindByID(ctx, listingID); err != nil {
			return nil, err
		}

		removed, err := s.favorites.Remove(ctx, userID, listingID)
		if err != nil {
			return nil, err
		}
		if !removed {
			if err := s.favorites.Add(ctx, favorite.Favorite{UserID: userID, ListingID: listingID, CreatedAt: time.Now()}); err != nil {
				return nil, err
			}
		}

		count, err := s.engine.RecomputeFavorites(ctx, listingID)
		if err != nil {
			return nil, err
		}
		return &ToggleResponse{Favorited: !removed, FavoritesCount: count}, nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListMine 按收藏时间倒序，附带信息摘要
func (s *ApplicationService) ListMine(ctx context.Context, userID string, page, perPage int) (shared.Page[FavoriteResponse], error) {
	p := shared.NewPagination(page, perPage, s.perPage, s.maxPerPage)
	result, err := s.favorites.ListByUser(ctx, userID, p)
	if err != nil {
		return shared.Page[FavoriteResponse]{}, err
	}

	items := make([]FavoriteResponse, len(result.Items))
	for i, f := range result.Items {
		items[i] = FavoriteResponse{ListingID: f.ListingID, CreatedAt: f.CreatedAt}
		l, err := s.listings.FindByID(ctx, f.ListingID)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return shared.Page[FavoriteResponse]{}, err
		}
		summary := applisting.ToResponse(l)
		items[i].Listing = &summary
	}
	return shared.Page[FavoriteResponse]{
		Items:    items,
		Page:     result.Page,
		PerPage:  result.PerPage,
		Total:    result.Total,
		LastPage: result.LastPage,
	}, nil
}
