package listing

import "strings"

// SortOrder 搜索结果排序方式，所有排序最终以 id 兜底保证确定性
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
	SortPriceAsc   SortOrder = "price_asc"
	SortPriceDesc  SortOrder = "price_desc"
	SortYearDesc   SortOrder = "year_desc"
	SortMileageAsc SortOrder = "mileage_asc"
	SortRatingDesc SortOrder = "rating_desc"
	SortMostViewed SortOrder = "most_viewed"
)

var sortOrders = []SortOrder{
	SortNewest, SortOldest, SortPriceAsc, SortPriceDesc,
	SortYearDesc, SortMileageAsc, SortRatingDesc, SortMostViewed,
}

// ParseSortOrder 空值返回默认排序 newest
func ParseSortOrder(raw string) (SortOrder, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SortNewest, true
	}
	return parseEnum(raw, sortOrders)
}

// Less 内存排序比较函数（SQL 仓储使用等价的 ORDER BY）
func (s SortOrder) Less(a, b *Listing) bool {
	switch s {
	case SortOldest:
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().Before(b.CreatedAt())
		}
		return a.ID() < b.ID()
	case SortPriceAsc:
		if a.Price().Cents() != b.Price().Cents() {
			return a.Price().Cents() < b.Price().Cents()
		}
	case SortPriceDesc:
		if a.Price().Cents() != b.Price().Cents() {
			return a.Price().Cents() > b.Price().Cents()
		}
	case SortYearDesc:
		if a.Year() != b.Year() {
			return a.Year() > b.Year()
		}
	case SortMileageAsc:
		if a.Mileage() != b.Mileage() {
			return a.Mileage() < b.Mileage()
		}
	case SortRatingDesc:
		if a.AverageRating() != b.AverageRating() {
			return a.AverageRating() > b.AverageRating()
		}
	case SortMostViewed:
		if a.ViewsCount() != b.ViewsCount() {
			return a.ViewsCount() > b.ViewsCount()
		}
	}
	if !a.CreatedAt().Equal(b.CreatedAt()) {
		return a.CreatedAt().After(b.CreatedAt())
	}
	return a.ID() > b.ID()
}
