package shared

import "math"

// Pagination 1 起始的分页参数
type Pagination struct {
	Page    int
	PerPage int
}

// Offset 返回 SQL OFFSET；溢出时饱和为 math.MaxInt，即必然越过末页
func (p Pagination) Offset() int {
	if p.Page < 1 || p.PerPage <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PerPage
}

// NewPagination 规范化分页参数：page 小于 1 取 1，perPage 非正取默认值，超过上限截断
func NewPagination(page, perPage, defaultPerPage, maxPerPage int) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

// Page 分页结果
// 超出末页时 Items 为空，Total 与 LastPage 保持不变
type Page[T any] struct {
	Items    []T
	Page     int
	PerPage  int
	Total    int64
	LastPage int
}

// NewPage 根据总数计算末页
func NewPage[T any](items []T, p Pagination, total int64) Page[T] {
	lastPage := 1
	if p.PerPage > 0 && total > 0 {
		lastPage = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Page:     p.Page,
		PerPage:  p.PerPage,
		Total:    total,
		LastPage: lastPage,
	}
}

// MapPage 转换分页元素类型
func MapPage[T, R any](page Page[T], fn func(T) R) Page[R] {
	items := make([]R, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return Page[R]{
		Items:    items,
		Page:     page.Page,
		PerPage:  page.PerPage,
		Total:    page.Total,
		LastPage: page.LastPage,
	}
}
