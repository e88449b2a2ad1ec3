package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CourierGormRepository struct {
	db *gorm.DB
}

func NewCourierGormRepository(db *gorm.DB) *CourierGormRepository {
	return &CourierGormRepository{db: db}
}

func (r *CourierGormRepository) FindByID(ctx context.Context, id int64) (model.Courier, error) {
	var c model.Courier
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Courier{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Courier{}, err
	}
	return c, nil
}

func (r *CourierGormRepository) List(ctx context.Context) ([]model.Courier, error) {
	var items []model.Courier
	if err := r.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return []model.Courier{}, err
	}
	return items, nil
}

func (r *CourierGormRepository) Create(ctx context.Context, c model.Courier) (model.Courier, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Courier{}, err
	}
	return c, nil
}

func (r *CourierGormRepository) Update(ctx context.Context, c model.Courier) error {
	res := r.db.WithContext(ctx).Model(&model.Courier{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":         c.Name,
			"phone":        c.Phone,
			"vehicle_type": c.VehicleType,
			"status":       c.Status,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CourierGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Courier{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
