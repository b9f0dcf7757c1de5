package gormstore

import (
	"errors"
	"fmt"

	"carmarket/domain/listing"
	"carmarket/domain/shared"

	"gorm.io/gorm"
)

// applySpecification 把领域谓词翻译为 WHERE 子句
// 未知谓词类型返回带错误的 db，而不是静默放宽查询
func applySpecification(db *gorm.DB, spec shared.Specification[*listing.Listing]) *gorm.DB {
	if spec == nil {
		return db
	}
	switch s := spec.(type) {
	case shared.AndSpecification[*listing.Listing]:
		return applySpecification(applySpecification(db, s.Left), s.Right)
	case shared.OrSpecification[*listing.Listing]:
		left := applySpecification(newGroup(db), s.Left)
		right := applySpecification(newGroup(db), s.Right)
		if err := errors.Join(left.Error, right.Error); err != nil {
			db.AddError(err)
			return db
		}
		return db.Where(left.Or(right))
	case shared.NotSpecification[*listing.Listing]:
		inner := applySpecification(newGroup(db), s.Spec)
		if inner.Error != nil {
			db.AddError(inner.Error)
			return db
		}
		return db.Not(inner)
	default:
		return applyPredicate(db, spec)
	}
}

// newGroup 空条件会话，用于构造括号分组
func newGroup(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true})
}

func applyPredicate(db *gorm.DB, spec shared.Specification[*listing.Listing]) *gorm.DB {
	switch s := spec.(type) {
	case listing.CategoryEquals:
		return db.Where("category_id = ?", s.CategoryID)
	case listing.MakeEquals:
		return db.Where("make_id = ?", s.MakeID)
	case listing.ModelEquals:
		return db.Where("model_id = ?", s.ModelID)
	case listing.PriceRange:
		if s.Min != nil {
			db = db.Where("price_cents >= ?", s.Min.Cents())
		}
		if s.Max != nil {
			db = db.Where("price_cents <= ?", s.Max.Cents())
		}
		return db
	case listing.YearEquals:
		return db.Where("year = ?", s.Year)
	case listing.MaxMileage:
		return db.Where("mileage <= ?", s.Mileage)
	case listing.TransmissionEquals:
		return db.Where("transmission = ?", string(s.Transmission))
	case listing.BodyTypeEquals:
		return db.Where("body_type = ?", string(s.BodyType))
	case listing.FuelTypeEquals:
		return db.Where("fuel_type = ?", string(s.FuelType))
	case listing.ConditionEquals:
		return db.Where("vehicle_condition = ?", string(s.Condition))
	case listing.OwnerEquals:
		return db.Where("owner_id = ?", s.OwnerID)
	case listing.FeaturedOnly:
		return db.Where("is_featured = ?", true)
	case listing.SoldEquals:
		return db.Where("is_sold = ?", s.Sold)
	case listing.ExcludeID:
		return db.Where("id <> ?", s.ID)
	case listing.TextSearch:
		return db.Where(textSearchGroup(newGroup(db), s))
	default:
		db.AddError(fmt.Errorf("unsupported listing specification %T", spec))
		return db
	}
}

// textSearchGroup (LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR make_id IN ? OR model_id IN ?)
func textSearchGroup(group *gorm.DB, s listing.TextSearch) *gorm.DB {
	pattern := containsPattern(s.Term)
	group = group.Where("LOWER(title) LIKE ?", pattern).Or("LOWER(description) LIKE ?", pattern)
	if len(s.MakeIDs) > 0 {
		group = group.Or("make_id IN ?", s.MakeIDs)
	}
	if len(s.ModelIDs) > 0 {
		group = group.Or("model_id IN ?", s.ModelIDs)
	}
	return group
}

// applySort 与 listing.SortOrder.Less 等价的 ORDER BY，id 兜底保证确定性
func applySort(db *gorm.DB, order listing.SortOrder) *gorm.DB {
	switch order {
	case listing.SortOldest:
		return db.Order("created_at ASC").Order("id ASC")
	case listing.SortPriceAsc:
		db = db.Order("price_cents ASC")
	case listing.SortPriceDesc:
		db = db.Order("price_cents DESC")
	case listing.SortYearDesc:
		db = db.Order("year DESC")
	case listing.SortMileageAsc:
		db = db.Order("mileage ASC")
	case listing.SortRatingDesc:
		db = db.Order("average_rating DESC")
	case listing.SortMostViewed:
		db = db.Order("views_count DESC")
	}
	return db.Order("created_at DESC").Order("id DESC")
}
