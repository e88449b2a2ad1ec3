package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomOrderGormRepository struct {
	db *gorm.DB
}

func NewCustomOrderGormRepository(db *gorm.DB) *CustomOrderGormRepository {
	return &CustomOrderGormRepository{db: db}
}

func (r *CustomOrderGormRepository) FindByID(ctx context.Context, id int64) (model.CustomOrder, error) {
	var co model.CustomOrder
	err := r.db.WithContext(ctx).First(&co, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CustomOrder{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CustomOrder{}, err
	}
	return co, nil
}

// カスタムオーダー行をFOR UPDATEで取る
func (r *CustomOrderGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.CustomOrder, error) {
	var co model.CustomOrder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&co, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CustomOrder{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CustomOrder{}, err
	}
	return co, nil
}

func (r *CustomOrderGormRepository) FindByPublicID(ctx context.Context, publicID string) (model.CustomOrder, bool, error) {
	var co model.CustomOrder
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&co).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CustomOrder{}, false, nil
	}
	if err != nil {
		return model.CustomOrder{}, false, err
	}
	return co, true, nil
}

func (r *CustomOrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.CustomOrder, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.CustomOrder{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return []model.CustomOrder{}, 0, err
	}

	var items []model.CustomOrder
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.CustomOrder{}, 0, err
	}
	return items, total, nil
}

func (r *CustomOrderGormRepository) ListAdmin(ctx context.Context, f repo.CustomOrderListFilter) ([]model.CustomOrder, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.CustomOrder{})

	if f.ApprovalStatus != "" {
		q = q.Where("approval_status = ?", f.ApprovalStatus)
	}
	if f.DeliveryStatus != "" {
		q = q.Where("delivery_status = ?", f.DeliveryStatus)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.CustomOrder{}, 0, err
	}

	var items []model.CustomOrder
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.CustomOrder{}, 0, err
	}
	return items, total, nil
}

func (r *CustomOrderGormRepository) Create(ctx context.Context, co model.CustomOrder) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&co).Error; err != nil {
		return 0, err
	}
	return co.ID, nil
}

func (r *CustomOrderGormRepository) UpdateApprovalStatus(ctx context.Context, id int64, status model.ApprovalStatus) error {
	res := r.db.WithContext(ctx).Model(&model.CustomOrder{}).
		Where("id = ?", id).
		Update("approval_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomOrderGormRepository) UpdateDeliveryStatus(ctx context.Context, id int64, status model.DeliveryStatus) error {
	res := r.db.WithContext(ctx).Model(&model.CustomOrder{}).
		Where("id = ?", id).
		Update("delivery_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 証憑確認。final_priceは未設定のときだけ埋める（上書きしない）
func (r *CustomOrderGormRepository) MarkPaymentVerified(ctx context.Context, id int64, finalPrice int64) error {
	res := r.db.WithContext(ctx).Model(&model.CustomOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_verified_at": gorm.Expr("COALESCE(payment_verified_at, NOW())"),
			"final_price":         gorm.Expr("COALESCE(final_price, ?)", finalPrice),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
