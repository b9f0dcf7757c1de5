// Package review 评价用例：每次变更都在同一事务内重算信息评分
package review

import (
	"context"

	"carmarket/domain/aggregation"
	"carmarket/domain/listing"
	"carmarket/domain/review"
	"carmarket/domain/shared"
)

type ApplicationService struct {
	reviews    review.Repository
	listings   listing.Repository
	engine     *aggregation.Engine
	uowFactory shared.UnitOfWorkFactory
	perPage    int
	maxPerPage int
}

func NewApplicationService(
	reviews review.Repository,
	listings listing.Repository,
	engine *aggregation.Engine,
	uowFactory shared.UnitOfWorkFactory,
	perPage, maxPerPage int,
) *ApplicationService {
	return &ApplicationService{
		reviews:    reviews,
		listings:   listings,
		engine:     engine,
		uowFactory: uowFactory,
		perPage:    perPage,
		maxPerPage: maxPerPage,
	}
}

// Create 同一用户对同一信息重复评价返回 Conflict
func (s *ApplicationService) Create(ctx context.Context, reviewerID, listingID string, req CreateReviewRequest) (*MutationResponse, error) {
	var (
		r     *review.Review
		stats aggregation.RatingStats
	)
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.listings.FindByID(ctx, listingID); err != nil {
			return err
		}
		var err error
		r, err = review.NewReview(listingID, reviewerID, review.Content{Rating: req.Rating, Title: req.Title, Comment: req.Comment})
		if err != nil {
			return err
		}
		if err := s.reviews.Save(ctx, r); err != nil {
			return err
		}
		if stats, err = s.engine.RecomputeRating(ctx, listingID); err != nil {
			return err
		}
		uow.RegisterNew(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mutationResponse(r, stats), nil
}

func (s *ApplicationService) Update(ctx context.Context, userID, reviewID string, req UpdateReviewRequest) (*MutationResponse, error) {
	return s.mutate(ctx, reviewID, func(r *review.Review) error {
		if err := r.EnsureAuthoredBy(userID); err != nil {
			return err
		}
		return r.Update(review.Content{Rating: req.Rating, Title: req.Title, Comment: req.Comment})
	})
}

// Verify 管理员审核通过
func (s *ApplicationService) Verify(ctx context.Context, reviewID string) (*MutationResponse, error) {
	return s.mutate(ctx, reviewID, func(r *review.Review) error {
		r.Verify()
		return nil
	})
}

// Unverify 管理员撤销审核
func (s *ApplicationService) Unverify(ctx context.Context, reviewID string) (*MutationResponse, error) {
	return s.mutate(ctx, reviewID, func(r *review.Review) error {
		r.Unverify()
		return nil
	})
}

// Delete 作者或管理员可删除
func (s *ApplicationService) Delete(ctx context.Context, userID string, isAdmin bool, reviewID string) (*MutationResponse, error) {
	var (
		r     *review.Review
		stats aggregation.RatingStats
	)
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if r, err = s.reviews.FindByID(ctx, reviewID); err != nil {
			return err
		}
		if !isAdmin {
			if err := r.EnsureAuthoredBy(userID); err != nil {
				return err
			}
		}
		if err := s.reviews.Remove(ctx, reviewID); err != nil {
			return err
		}
		if stats, err = s.engine.RecomputeRating(ctx, r.ListingID()); err != nil {
			return err
		}
		r.MarkRemoved()
		uow.RegisterRemoved(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &MutationResponse{Listing: toListingRating(r.ListingID(), stats)}, nil
}

// ListByListing 按创建时间倒序；verifiedOnly 只返回已审核评价
func (s *ApplicationService) ListByListing(ctx context.Context, listingID string, verifiedOnly bool, page, perPage int) (shared.Page[ReviewResponse], error) {
	if _, err := s.listings.FindByID(ctx, listingID); err != nil {
		return shared.Page[ReviewResponse]{}, err
	}
	p := shared.NewPagination(page, perPage, s.perPage, s.maxPerPage)
	result, err := s.reviews.ListByListing(ctx, listingID, verifiedOnly, p)
	if err != nil {
		return shared.Page[ReviewResponse]{}, err
	}
	return shared.MapPage(result, toResponse), nil
}

// mutate 加载评价、修改、保存并重算评分
func (s *ApplicationService) mutate(ctx context.Context, reviewID string, change func(r *review.Review) error) (*MutationResponse, error) {
	var (
		r     *review.Review
		stats aggregation.RatingStats
	)
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		var err error
		if r, err = s.reviews.FindByID(ctx, reviewID); err != nil {
			return err
		}
		if err := change(r); err != nil {
			return err
		}
		if err := s.reviews.Save(ctx, r); err != nil {
			return err
		}
		if stats, err = s.engine.RecomputeRating(ctx, r.ListingID()); err != nil {
			return err
		}
		uow.RegisterDirty(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mutationResponse(r, stats), nil
}

func mutationResponse(r *review.Review, stats aggregation.RatingStats) *MutationResponse {
	resp := toResponse(r)
	return &MutationResponse{Review: &resp, Listing: toListingRating(r.ListingID(), stats)}
}

func toListingRating(listingID string, stats aggregation.RatingStats) ListingRating {
	return ListingRating{ListingID: listingID, AverageRating: stats.AverageRating, ReviewsCount: stats.ReviewsCount}
}

func toResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID(),
		ListingID:  r.ListingID(),
		ReviewerID: r.ReviewerID(),
		Rating:     r.Rating(),
		Title:      r.Title(),
		Comment:    r.Comment(),
		Verified:   r.IsVerified(),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	}
}
