/*
Package taxonomy 车辆分类层级子域：Category → Make → Model

层级规则:
1. Make 恰好属于一个 Category
2. Model 恰好属于一个 Make
3. 被引用后不可变（只读子域，仅后台可新增）
*/
package taxonomy

import (
	"fmt"
	"regexp"
	"strings"

	"carmarket/domain/shared"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Category 分类（层级根）
type Category struct {
	id   string
	name string
	slug string
}

// Make 品牌
type Make struct {
	id         string
	categoryID string
	name       string
}

// VehicleModel 车型
type VehicleModel struct {
	id     string
	makeID string
	name   string
}

// NewCategory 创建分类，slug 为空时由名称生成
func NewCategory(name, slug string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("category", "name", "category name is required")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate category ID: %w", err)
	}
	return &Category{id: id.String(), name: name, slug: slug}, nil
}

// NewMake 创建品牌
func NewMake(categoryID, name string) (*Make, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("make", "name", "make name is required")
	}
	if categoryID == "" {
		return nil, shared.NewValidationError("make", "category_id", "category is required")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate make ID: %w", err)
	}
	return &Make{id: id.String(), categoryID: categoryID, name: name}, nil
}

// NewVehicleModel 创建车型
func NewVehicleModel(makeID, name string) (*VehicleModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("model", "name", "model name is required")
	}
	if makeID == "" {
		return nil, shared.NewValidationError("model", "make_id", "make is required")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate model ID: %w", err)
	}
	return &VehicleModel{id: id.String(), makeID: makeID, name: name}, nil
}

// Slugify 生成 URL 友好的标识
func Slugify(name string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// ============================================================================
// 仓储层重建方法
// ============================================================================

func RebuildCategory(id, name, slug string) *Category {
	return &Category{id: id, name: name, slug: slug}
}

func RebuildMake(id, categoryID, name string) *Make {
	return &Make{id: id, categoryID: categoryID, name: name}
}

func RebuildVehicleModel(id, makeID, name string) *VehicleModel {
	return &VehicleModel{id: id, makeID: makeID, name: name}
}

func (c *Category) ID() string   { return c.id }
func (c *Category) Name() string { return c.name }
func (c *Category) Slug() string { return c.slug }

func (m *Make) ID() string         { return m.id }
func (m *Make) CategoryID() string { return m.categoryID }
func (m *Make) Name() string       { return m.name }

func (m *VehicleModel) ID() string     { return m.id }
func (m *VehicleModel) MakeID() string { return m.makeID }
func (m *VehicleModel) Name() string   { return m.name }
