package gormstore

import (
	"context"
	"errors"
	"strings"

	"carmarket/domain/shared"
	"carmarket/domain/taxonomy"
	"carmarket/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

type TaxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

func (r *TaxonomyRepository) FindCategory(ctx context.Context, id string) (*taxonomy.Category, error) {
	var row po.CategoryPO
	if err := first(getDB(ctx, r.db), &row, "category", "id = ?", id); err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *TaxonomyRepository) FindMake(ctx context.Context, id string) (*taxonomy.Make, error) {
	var row po.MakePO
	if err := first(getDB(ctx, r.db), &row, "make", "id = ?", id); err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *TaxonomyRepository) FindModel(ctx context.Context, id string) (*taxonomy.VehicleModel, error) {
	var row po.VehicleModelPO
	if err := first(getDB(ctx, r.db), &row, "model", "id = ?", id); err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *TaxonomyRepository) FindMakeByName(ctx context.Context, categoryID, name string) (*taxonomy.Make, error) {
	db := getDB(ctx, r.db).Where("LOWER(name) = ?", strings.ToLower(name))
	if categoryID != "" {
		db = db.Where("category_id = ?", categoryID)
	}
	var row po.MakePO
	if err := first(db.Order("id ASC"), &row, "make"); err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *TaxonomyRepository) FindModelByName(ctx context.Context, makeID, name string) (*taxonomy.VehicleModel, error) {
	db := getDB(ctx, r.db).Where("LOWER(name) = ?", strings.ToLower(name))
	if makeID != "" {
		db = db.Where("make_id = ?", makeID)
	}
	var row po.VehicleModelPO
	if err := first(db.Order("id ASC"), &row, "model"); err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *TaxonomyRepository) MatchMakeIDs(ctx context.Context, term string) ([]string, error) {
	var ids []string
	err := getDB(ctx, r.db).Model(&po.MakePO{}).
		Where("LOWER(name) LIKE ?", containsPattern(term)).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *TaxonomyRepository) MatchModelIDs(ctx context.Context, term string) ([]string, error) {
	var ids []string
	err := getDB(ctx, r.db).Model(&po.VehicleModelPO{}).
		Where("LOWER(name) LIKE ?", containsPattern(term)).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context) ([]*taxonomy.Category, error) {
	var rows []po.CategoryPO
	if err := getDB(ctx, r.db).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*taxonomy.Category, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *TaxonomyRepository) ListMakes(ctx context.Context, categoryID string) ([]*taxonomy.Make, error) {
	var rows []po.MakePO
	err := getDB(ctx, r.db).Where("category_id = ?", categoryID).
		Order("name ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*taxonomy.Make, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *TaxonomyRepository) ListModels(ctx context.Context, makeID string) ([]*taxonomy.VehicleModel, error) {
	var rows []po.VehicleModelPO
	err := getDB(ctx, r.db).Where("make_id = ?", makeID).
		Order("name ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*taxonomy.VehicleModel, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *TaxonomyRepository) SaveCategory(ctx context.Context, c *taxonomy.Category) error {
	return create(getDB(ctx, r.db), po.FromCategoryDomain(c),
		shared.NewConflictError("category", "category slug already exists"))
}

func (r *TaxonomyRepository) SaveMake(ctx context.Context, m *taxonomy.Make) error {
	return create(getDB(ctx, r.db), po.FromMakeDomain(m),
		shared.NewConflictError("make", "make already exists in this category"))
}

func (r *TaxonomyRepository) SaveModel(ctx context.Context, m *taxonomy.VehicleModel) error {
	return create(getDB(ctx, r.db), po.FromVehicleModelDomain(m),
		shared.NewConflictError("model", "model already exists for this make"))
}

// first 查询单行，不存在时返回 entity 的 NotFound
func first(db *gorm.DB, dest interface{}, entity string, conds ...interface{}) error {
	err := db.First(dest, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity)
	}
	return err
}

// create 插入单行，唯一键冲突时返回 conflict
func create(db *gorm.DB, value interface{}, conflict error) error {
	err := db.Create(value).Error
	if isDuplicateKeyError(err) {
		return conflict
	}
	return err
}

var _ taxonomy.Repository = (*TaxonomyRepository)(nil)
