package listing

import (
	"encoding/json"
	"strings"

	"carmarket/domain/listing"
	"carmarket/domain/shared"
)

// ToResponse 供收藏、最近浏览等用例复用
func ToResponse(l *listing.Listing) ListingResponse {
	return ListingResponse{
		ID:             l.ID(),
		OwnerID:        l.OwnerID(),
		CategoryID:     l.CategoryID(),
		MakeID:         l.MakeID(),
		ModelID:        l.ModelID(),
		Title:          l.Title(),
		Description:    l.Description(),
		Price:          json.Number(l.Price().String()),
		Year:           l.Year(),
		Mileage:        l.Mileage(),
		Color:          l.Color(),
		Transmission:   string(l.Transmission()),
		FuelType:       string(l.FuelType()),
		BodyType:       string(l.BodyType()),
		Condition:      string(l.Condition()),
		Location:       l.Location(),
		CityID:         l.CityID(),
		RegistrationID: l.RegistrationID(),
		Features:       nonNil(l.Features()),
		Images:         nonNil(l.Images()),
		Certified:      l.Certified(),
		Featured:       l.IsFeatured(),
		Sold:           l.IsSold(),
		ViewsCount:     l.ViewsCount(),
		FavoritesCount: l.FavoritesCount(),
		AverageRating:  l.AverageRating(),
		ReviewsCount:   l.ReviewsCount(),
		CreatedAt:      l.CreatedAt(),
		UpdatedAt:      l.UpdatedAt(),
	}
}

func toResponses(items []*listing.Listing) []ListingResponse {
	out := make([]ListingResponse, len(items))
	for i, l := range items {
		out[i] = ToResponse(l)
	}
	return out
}

func parsePrice(field string, raw json.Number) (shared.Price, error) {
	p, err := shared.ParsePrice(raw.String())
	if err != nil {
		return shared.Price{}, shared.NewValidationError("listing", field, "price must be a decimal number")
	}
	return p, nil
}

func toAttributes(req CreateListingRequest) (listing.Attributes, error) {
	price, err := parsePrice("price", req.Price)
	if err != nil {
		return listing.Attributes{}, err
	}
	return listing.Attributes{
		CategoryID:     strings.TrimSpace(req.CategoryID),
		MakeID:         strings.TrimSpace(req.MakeID),
		ModelID:        strings.TrimSpace(req.ModelID),
		Title:          req.Title,
		Description:    req.Description,
		Price:          price,
		Year:           req.Year,
		Mileage:        req.Mileage,
		Color:          req.Color,
		Transmission:   listing.Transmission(req.Transmission),
		FuelType:       listing.FuelType(req.FuelType),
		BodyType:       listing.BodyType(req.BodyType),
		Condition:      listing.Condition(req.Condition),
		Location:       req.Location,
		CityID:         req.CityID,
		RegistrationID: req.RegistrationID,
		Features:       req.Features,
		Certified:      req.Certified,
		Featured:       req.Featured,
	}, nil
}

// mergePatch 把局部更新合并到当前属性；taxonomyChanged 表示需要重新校验层级
func mergePatch(a listing.Attributes, req UpdateListingRequest) (attrs listing.Attributes, taxonomyChanged bool, err error) {
	if req.CategoryID != nil {
		a.CategoryID = strings.TrimSpace(*req.CategoryID)
		taxonomyChanged = true
	}
	if req.MakeID != nil {
		a.MakeID = strings.TrimSpace(*req.MakeID)
		taxonomyChanged = true
	}
	if req.ModelID != nil {
		a.ModelID = strings.TrimSpace(*req.ModelID)
		taxonomyChanged = true
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Price != nil {
		if a.Price, err = parsePrice("price", *req.Price); err != nil {
			return a, false, err
		}
	}
	if req.Year != nil {
		a.Year = *req.Year
	}
	if req.Mileage != nil {
		a.Mileage = *req.Mileage
	}
	if req.Color != nil {
		a.Color = *req.Color
	}
	if req.Transmission != nil {
		a.Transmission = listing.Transmission(*req.Transmission)
	}
	if req.FuelType != nil {
		a.FuelType = listing.FuelType(*req.FuelType)
	}
	if req.BodyType != nil {
		a.BodyType = listing.BodyType(*req.BodyType)
	}
	if req.Condition != nil {
		a.Condition = listing.Condition(*req.Condition)
	}
	if req.Location != nil {
		a.Location = *req.Location
	}
	if req.CityID != nil {
		a.CityID = *req.CityID
	}
	if req.RegistrationID != nil {
		a.RegistrationID = *req.RegistrationID
	}
	if req.Features != nil {
		a.Features = *req.Features
	}
	if req.Certified != nil {
		a.Certified = *req.Certified
	}
	if req.Featured != nil {
		a.Featured = *req.Featured
	}
	return a, taxonomyChanged, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
