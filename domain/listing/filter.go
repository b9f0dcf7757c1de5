package listing

import (
	"context"
	"strconv"
	"strings"

	"carmarket/domain/shared"
	"carmarket/domain/taxonomy"
)

// 请求参数键
const (
	ParamMakeID       = "make_id"
	ParamModelID      = "model_id"
	ParamMake         = "make"
	ParamModel        = "model"
	ParamMinPrice     = "min_price"
	ParamMaxPrice     = "max_price"
	ParamYear         = "year"
	ParamMaxMileage   = "max_mileage"
	ParamTransmission = "transmission"
	ParamBodyType     = "body_type"
	ParamFuelType     = "fuel_type"
	ParamCondition    = "condition"
	ParamCategoryID   = "category_id"
	ParamExcludeID    = "exclude_id"
	ParamSearch       = "search"
	ParamSort         = "sort"
	ParamPage         = "page"
	ParamPerPage      = "per_page"
)

// FilterParams 原始查询参数；缺失、空串或纯空白都视为"不约束"
type FilterParams map[string]string

// Get 返回去除首尾空白后的值
func (p FilterParams) Get(key string) string {
	return strings.TrimSpace(p[key])
}

// Mode 过滤模式
type Mode int

const (
	// ModeStructured 结构化过滤：所有谓词 AND 组合
	ModeStructured Mode = iota
	// ModeSearch 文本搜索：仅应用文本谓词（以及 exclude_id），结构化过滤被忽略
	ModeSearch
)

func (m Mode) String() string {
	if m == ModeSearch {
		return "search"
	}
	return "structured"
}

// Filter 构建完成的查询
type Filter struct {
	Mode       Mode
	Predicates []Predicate
	Sort       SortOrder
	Pagination shared.Pagination
}

// Specification 以 AND 组合所有谓词
func (f Filter) Specification() shared.Specification[*Listing] {
	return ToSpecification(f.Predicates)
}

// With 追加谓词并保持规范顺序，返回新的 Filter
func (f Filter) With(preds ...Predicate) Filter {
	out := f
	out.Predicates = append(append([]Predicate(nil), f.Predicates...), preds...)
	SortPredicates(out.Predicates)
	return out
}

// TaxonomyLookup 过滤构建依赖的分类解析能力（*taxonomy.Resolver 实现该接口）
type TaxonomyLookup interface {
	ResolveCategory(ctx context.Context, categoryID string) (*taxonomy.Category, error)
	ResolveMake(ctx context.Context, categoryID, makeID string) (*taxonomy.Make, error)
	ResolveModel(ctx context.Context, makeID, modelID string) (*taxonomy.VehicleModel, error)
	ResolveMakeByName(ctx context.Context, categoryID, name string) (*taxonomy.Make, error)
	ResolveModelByName(ctx context.Context, makeID, name string) (*taxonomy.VehicleModel, error)
	MatchNames(ctx context.Context, term string) (makeIDs, modelIDs []string, err error)
}

// FilterBuilder 将原始请求参数转换为类型化谓词
type FilterBuilder struct {
	lookup     TaxonomyLookup
	maxPerPage int
}

// NewFilterBuilder 创建过滤构建器；maxPerPage 为每页硬上限
func NewFilterBuilder(lookup TaxonomyLookup, maxPerPage int) *FilterBuilder {
	return &FilterBuilder{lookup: lookup, maxPerPage: maxPerPage}
}

// Build 解析参数；defaultPerPage 随调用端点不同（搜索 12，其它列表 10）
func (b *FilterBuilder) Build(ctx context.Context, params FilterParams, defaultPerPage int) (Filter, error) {
	pagination, err := b.parsePagination(params, defaultPerPage)
	if err != nil {
		return Filter{}, err
	}

	sortOrder, ok := ParseSortOrder(params.Get(ParamSort))
	if !ok {
		return Filter{}, shared.NewValidationError("listing", ParamSort, "unknown sort order "+params.Get(ParamSort))
	}

	filter := Filter{Mode: ModeStructured, Sort: sortOrder, Pagination: pagination}

	var preds []Predicate
	if excludeID := params.Get(ParamExcludeID); excludeID != "" {
		preds = append(preds, ExcludeID{ID: excludeID})
	}

	if term := params.Get(ParamSearch); term != "" {
		makeIDs, modelIDs, err := b.lookup.MatchNames(ctx, term)
		if err != nil {
			return Filter{}, err
		}
		filter.Mode = ModeSearch
		preds = append(preds, TextSearch{Term: term, MakeIDs: makeIDs, ModelIDs: modelIDs})
		SortPredicates(preds)
		filter.Predicates = preds
		return filter, nil
	}

	structured, err := b.structuredPredicates(ctx, params)
	if err != nil {
		return Filter{}, err
	}
	preds = append(preds, structured...)
	SortPredicates(preds)
	filter.Predicates = preds
	return filter, nil
}

func (b *FilterBuilder) parsePagination(params FilterParams, defaultPerPage int) (shared.Pagination, error) {
	page, err := optionalInt(params, ParamPage)
	if err != nil {
		return shared.Pagination{}, err
	}
	perPage, err := optionalInt(params, ParamPerPage)
	if err != nil {
		return shared.Pagination{}, err
	}
	return shared.NewPagination(page, perPage, defaultPerPage, b.maxPerPage), nil
}

func (b *FilterBuilder) structuredPredicates(ctx context.Context, params FilterParams) ([]Predicate, error) {
	var preds []Predicate

	categoryID := params.Get(ParamCategoryID)
	if categoryID != "" {
		if _, err := b.lookup.ResolveCategory(ctx, categoryID); err != nil {
			return nil, err
		}
		preds = append(preds, CategoryEquals{CategoryID: categoryID})
	}

	makeID, err := b.resolveMake(ctx, params, categoryID)
	if err != nil {
		return nil, err
	}
	if makeID != "" {
		preds = append(preds, MakeEquals{MakeID: makeID})
	}

	modelID, err := b.resolveModel(ctx, params, makeID)
	if err != nil {
		return nil, err
	}
	if modelID != "" {
		preds = append(preds, ModelEquals{ModelID: modelID})
	}

	priceRange, err := parsePriceRange(params)
	if err != nil {
		return nil, err
	}
	if priceRange != nil {
		preds = append(preds, *priceRange)
	}

	if raw := params.Get(ParamYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, shared.NewValidationError("listing", ParamYear, "year must be an integer")
		}
		preds = append(preds, YearEquals{Year: year})
	}

	if raw := params.Get(ParamMaxMileage); raw != "" {
		mileage, err := strconv.Atoi(raw)
		if err != nil || mileage < 0 {
			return nil, shared.NewValidationError("listing", ParamMaxMileage, "max_mileage must be a non-negative integer")
		}
		preds = append(preds, MaxMileage{Mileage: mileage})
	}

	if raw := params.Get(ParamTransmission); raw != "" {
		v, ok := ParseTransmission(raw)
		if !ok {
			return nil, shared.NewValidationError("listing", ParamTransmission, "unknown transmission "+raw)
		}
		preds = append(preds, TransmissionEquals{Transmission: v})
	}

	if raw := params.Get(ParamBodyType); raw != "" {
		v, ok := ParseBodyType(raw)
		if !ok {
			return nil, shared.NewValidationError("listing", ParamBodyType, "unknown body type "+raw)
		}
		preds = append(preds, BodyTypeEquals{BodyType: v})
	}

	if raw := params.Get(ParamFuelType); raw != "" {
		v, ok := ParseFuelType(raw)
		if !ok {
			return nil, shared.NewValidationError("listing", ParamFuelType, "unknown fuel type "+raw)
		}
		preds = append(preds, FuelTypeEquals{FuelType: v})
	}

	if raw := params.Get(ParamCondition); raw != "" {
		v, ok := ParseCondition(raw)
		if !ok {
			return nil, shared.NewValidationError("listing", ParamCondition, "unknown condition "+raw)
		}
		preds = append(preds, ConditionEquals{Condition: v})
	}

	return preds, nil
}

// resolveMake make_id 优先于 make 名称
func (b *FilterBuilder) resolveMake(ctx context.Context, params FilterParams, categoryID string) (string, error) {
	if id := params.Get(ParamMakeID); id != "" {
		mk, err := b.lookup.ResolveMake(ctx, categoryID, id)
		if err != nil {
			return "", err
		}
		return mk.ID(), nil
	}
	if name := params.Get(ParamMake); name != "" {
		mk, err := b.lookup.ResolveMakeByName(ctx, categoryID, name)
		if err != nil {
			return "", err
		}
		return mk.ID(), nil
	}
	return "", nil
}

// resolveModel model_id 优先于 model 名称
func (b *FilterBuilder) resolveModel(ctx context.Context, params FilterParams, makeID string) (string, error) {
	if id := params.Get(ParamModelID); id != "" {
		md, err := b.lookup.ResolveModel(ctx, makeID, id)
		if err != nil {
			return "", err
		}
		return md.ID(), nil
	}
	if name := params.Get(ParamModel); name != "" {
		md, err := b.lookup.ResolveModelByName(ctx, makeID, name)
		if err != nil {
			return "", err
		}
		return md.ID(), nil
	}
	return "", nil
}

func parsePriceRange(params FilterParams) (*PriceRange, error) {
	var r PriceRange
	if raw := params.Get(ParamMinPrice); raw != "" {
		p, err := shared.ParsePrice(raw)
		if err != nil {
			return nil, shared.NewValidationError("listing", ParamMinPrice, "min_price must be a non-negative decimal")
		}
		r.Min = &p
	}
	if raw := params.Get(ParamMaxPrice); raw != "" {
		p, err := shared.ParsePrice(raw)
		if err != nil {
			return nil, shared.NewValidationError("listing", ParamMaxPrice, "max_price must be a non-negative decimal")
		}
		r.Max = &p
	}
	if r.Min == nil && r.Max == nil {
		return nil, nil
	}
	if r.Min != nil && r.Max != nil && r.Min.Cents() > r.Max.Cents() {
		return nil, shared.NewValidationError("listing", ParamMinPrice, "min_price must not exceed max_price")
	}
	return &r, nil
}

func optionalInt(params FilterParams, key string) (int, error) {
	raw := params.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.NewValidationError("listing", key, key+" must be an integer")
	}
	return v, nil
}
