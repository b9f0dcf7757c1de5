package listing

import (
	"context"
	"slices"
	"sort"
	"strings"

	"carmarket/domain/shared"
)

// Predicate 搜索谓词（tagged union）
// 每个具体谓词既可以在内存中求值，也由 SQL 仓储翻译为 WHERE 子句
type Predicate interface {
	shared.Specification[*Listing]
	// Field 谓词约束的字段，决定规范化排序
	Field() string
}

// canonicalOrder 谓词的规范顺序，相同输入总是折叠为相同的谓词序列
var canonicalOrder = map[string]int{
	"text":         0,
	"category_id":  1,
	"make_id":      2,
	"model_id":     3,
	"price":        4,
	"year":         5,
	"mileage":      6,
	"transmission": 7,
	"body_type":    8,
	"fuel_type":    9,
	"condition":    10,
	"owner_id":     11,
	"is_featured":  12,
	"is_sold":      13,
	"exclude_id":   14,
}

// SortPredicates 按规范顺序稳定排序
func SortPredicates(preds []Predicate) {
	sort.SliceStable(preds, func(i, j int) bool {
		return canonicalOrder[preds[i].Field()] < canonicalOrder[preds[j].Field()]
	})
}

// ToSpecification 以 AND 组合谓词；空列表返回 nil（不约束）
func ToSpecification(preds []Predicate) shared.Specification[*Listing] {
	specs := make([]shared.Specification[*Listing], len(preds))
	for i, p := range preds {
		specs[i] = p
	}
	return shared.AllOf(specs...)
}

type CategoryEquals struct{ CategoryID string }

func (s CategoryEquals) Field() string { return "category_id" }
func (s CategoryEquals) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.CategoryID() == s.CategoryID
}

type MakeEquals struct{ MakeID string }

func (s MakeEquals) Field() string { return "make_id" }
func (s MakeEquals) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.MakeID() == s.MakeID
}

type ModelEquals struct{ ModelID string }

func (s ModelEquals) Field() string { return "model_id" }
func (s ModelEquals) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.ModelID() == s.ModelID
}

// PriceRange 闭区间价格约束，Min/Max 任一为 nil 表示单侧
type PriceRange struct {
	Min *shared.Price
	Max *shared.Price
}

func (s PriceRange) Field() string { return "price" }
func (s PriceRange) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	cents := l.Price().Cents()
	if s.Min != nil && cents < s.Min.Cents() {
		return false
	}
	if s.Max != nil && cents > s.Max.Cents() {
		return false
	}
	return true
}

type YearEquals struct{ Year int }

func (s YearEquals) Field() string { return "year" }
func (s YearEquals) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.Year() == s.Year
}

type MaxMileage struct{ Mileage int }

func (s MaxMileage) Field() string { return "mileage" }
func (s MaxMileage) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.Mileage() <= s.Mileage
}

type TransmissionEquals struct{ Transmission Transmission }

func (s TransmissionEquals) Field() string { return "transmission" }
func (s TransmissionEquals) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.Transmission() == s.Transmission
}

type BodyTypeEquals struct{ BodyType BodyType }

func (s BodyTypeEquals) Field() string { return "body_type" }
func (s BodyTypeEquals) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.BodyType() == s.BodyType
}

type FuelTypeEquals struct{ FuelType FuelType }

func (s FuelTypeEquals) Field() string { return "fuel_type" }
func (s FuelTypeEquals) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.FuelType() == s.FuelType
}

type ConditionEquals struct{ Condition Condition }

func (s ConditionEquals) Field() string { return "condition" }
func (s ConditionEquals) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.Condition() == s.Condition
}

type OwnerEquals struct{ OwnerID string }

func (s OwnerEquals) Field() string { return "owner_id" }
func (s OwnerEquals) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.OwnerID() == s.OwnerID
}

type FeaturedOnly struct{}

func (s FeaturedOnly) Field() string { return "is_featured" }
func (s FeaturedOnly) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.IsFeatured()
}

type SoldEquals struct{ Sold bool }

func (s SoldEquals) Field() string { return "is_sold" }
func (s SoldEquals) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.IsSold() == s.Sold
}

// ExcludeID 结果集修饰：排除指定信息（"相似车辆"排除自身），搜索模式下同样生效
type ExcludeID struct{ ID string }

func (s ExcludeID) Field() string { return "exclude_id" }
func (s ExcludeID) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	return l.ID() != s.ID
}

// TextSearch 大小写不敏感子串匹配：标题、描述，或名称匹配的品牌/车型
// MakeIDs/ModelIDs 在构建阶段通过分类解析得到，谓词本身是纯函数
type TextSearch struct {
	Term     string
	MakeIDs  []string
	ModelIDs []string
}

func (s TextSearch) Field() string { return "text" }
func (s TextSearch) IsSatisfiedBy(_ context.Context, l *Listing) bool {
	term := strings.ToLower(s.Term)
	if strings.Contains(strings.ToLower(l.Title()), term) ||
		strings.Contains(strings.ToLower(l.Description()), term) {
		return true
	}
	return slices.Contains(s.MakeIDs, l.MakeID()) || slices.Contains(s.ModelIDs, l.ModelID())
}
