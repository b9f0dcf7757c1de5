package po

import "carmarket/domain/taxonomy"

type CategoryPO struct {
	ID   string `gorm:"primaryKey;size:64"`
	Name string `gorm:"size:100;not null"`
	Slug string `gorm:"size:100;uniqueIndex;not null"`
}

func (CategoryPO) TableName() string {
	return "categories"
}

func FromCategoryDomain(c *taxonomy.Category) *CategoryPO {
	return &CategoryPO{ID: c.ID(), Name: c.Name(), Slug: c.Slug()}
}

func (po *CategoryPO) ToDomain() *taxonomy.Category {
	return taxonomy.RebuildCategory(po.ID, po.Name, po.Slug)
}

// MakePO 品牌；(category_id, name) 唯一
type MakePO struct {
	ID         string `gorm:"primaryKey;size:64"`
	CategoryID string `gorm:"size:64;not null;uniqueIndex:idx_makes_category_name"`
	Name       string `gorm:"size:100;not null;uniqueIndex:idx_makes_category_name"`
}

func (MakePO) TableName() string {
	return "makes"
}

func FromMakeDomain(m *taxonomy.Make) *MakePO {
	return &MakePO{ID: m.ID(), CategoryID: m.CategoryID(), Name: m.Name()}
}

func (po *MakePO) ToDomain() *taxonomy.Make {
	return taxonomy.RebuildMake(po.ID, po.CategoryID, po.Name)
}

// VehicleModelPO 车型；(make_id, name) 唯一
type VehicleModelPO struct {
	ID     string `gorm:"primaryKey;size:64"`
	MakeID string `gorm:"size:64;not null;uniqueIndex:idx_models_make_name"`
	Name   string `gorm:"size:100;not null;uniqueIndex:idx_models_make_name"`
}

func (VehicleModelPO) TableName() string {
	return "vehicle_models"
}

func FromVehicleModelDomain(m *taxonomy.VehicleModel) *VehicleModelPO {
	return &VehicleModelPO{ID: m.ID(), MakeID: m.MakeID(), Name: m.Name()}
}

func (po *VehicleModelPO) ToDomain() *taxonomy.VehicleModel {
	return taxonomy.RebuildVehicleModel(po.ID, po.MakeID, po.Name)
}
