package gormstore

import (
	"context"
	"time"

	"carmarket/domain/dealer"
	"carmarket/domain/shared"
	"carmarket/infrastructure/persistence/gormstore/po"

	"gorm.io/gorm"
)

type DealerRepository struct {
	db *gorm.DB
}

func NewDealerRepository(db *gorm.DB) *DealerRepository {
	return &DealerRepository{db: db}
}

func (r *DealerRepository) Save(ctx context.Context, d *dealer.Dealer) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		dealerPO := po.FromDealerDomain(d)

		if d.IsNew() {
			if err := create(tx, dealerPO,
				shared.NewConflictError("dealer", "user already has a dealer profile")); err != nil {
				return err
			}
			d.ClearNewFlag()
			return nil
		}

		expectedVersion := d.Version()
		result := tx.Model(&po.DealerPO{}).
			Where("id = ? AND version = ?", d.ID(), expectedVersion).
			Updates(map[string]interface{}{
				"name":        dealerPO.Name,
				"description": dealerPO.Description,
				"phone":       dealerPO.Phone,
				"city_id":     dealerPO.CityID,
				"version":     expectedVersion + 1,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.DealerPO{}).Where("id = ?", d.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.NewNotFoundError("dealer")
			}
			return shared.NewConcurrentModificationError("dealer", d.ID())
		}

		d.IncrementVersionForSave()
		d.ClearNewFlag()
		return nil
	})
}

func (r *DealerRepository) FindByID(ctx context.Context, id string) (*dealer.Dealer, error) {
	var row po.DealerPO
	if err := first(getDB(ctx, r.db), &row, "dealer", "id = ?", id); err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *DealerRepository) FindByUserID(ctx context.Context, userID string) (*dealer.Dealer, error) {
	var row po.DealerPO
	if err := first(getDB(ctx, r.db), &row, "dealer", "user_id = ?", userID); err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

func (r *DealerRepository) List(ctx context.Context, p shared.Pagination) (shared.Page[*dealer.Dealer], error) {
	base := getDB(ctx, r.db).Model(&po.DealerPO{}).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Page[*dealer.Dealer]{}, err
	}

	var rows []po.DealerPO
	if err := base.Order("is_featured DESC").Order("created_at DESC").Order("id DESC").
		Offset(p.Offset()).Limit(p.PerPage).
		Find(&rows).Error; err != nil {
		return shared.Page[*dealer.Dealer]{}, err
	}

	items := make([]*dealer.Dealer, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return shared.NewPage(items, p, total), nil
}

func (r *DealerRepository) Remove(ctx context.Context, id string) error {
	result := getDB(ctx, r.db).Where("id = ?", id).Delete(&po.DealerPO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("dealer")
	}
	return nil
}

func (r *DealerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&po.DealerPO{}).Count(&count).Error
	return count, err
}

var _ dealer.Repository = (*DealerRepository)(nil)
