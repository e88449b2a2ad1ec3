package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// バリアント行をFOR UPDATEで取る。カウンタ更新は必ずここを通す。
func (r *InventoryGormRepository) lockVariant(ctx context.Context, productID int64, size string, color string) (model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND size = ? AND color = ?", productID, size, color).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductVariant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

// カウンタとstock_statusを1回のUPDATEで書き戻す。
func (r *InventoryGormRepository) saveCounters(ctx context.Context, v model.ProductVariant) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductVariant{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"stock_quantity":     v.StockQuantity,
			"available_quantity": v.AvailableQuantity,
			"reserved_quantity":  v.ReservedQuantity,
			"stock_status":       v.StockStatus,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// availableが足りるときだけ available→reserved に移す
func (r *InventoryGormRepository) Reserve(ctx context.Context, productID int64, size string, color string, qty int64) (bool, error) {
	if qty <= 0 {
		return false, errors.New("invalid quantity")
	}

	v, err := r.lockVariant(ctx, productID, size, color)
	if err != nil {
		return false, err
	}
	if !v.ReserveStock(qty) {
		return false, nil
	}
	if err := r.saveCounters(ctx, v); err != nil {
		return false, err
	}
	return true, nil
}

// reserved→available に戻す（キャンセル承認）
func (r *InventoryGormRepository) Release(ctx context.Context, productID int64, size string, color string, qty int64) error {
	if qty <= 0 {
		return errors.New("invalid quantity")
	}

	v, err := r.lockVariant(ctx, productID, size, color)
	if err != nil {
		return err
	}
	v.ReleaseStock(qty)
	return r.saveCounters(ctx, v)
}

// 配達完了。reservedとstock_quantityを減らす（物理在庫の消費）
func (r *InventoryGormRepository) Commit(ctx context.Context, productID int64, size string, color string, qty int64) error {
	if qty <= 0 {
		return errors.New("invalid quantity")
	}

	v, err := r.lockVariant(ctx, productID, size, color)
	if err != nil {
		return err
	}
	v.CommitStock(qty)
	return r.saveCounters(ctx, v)
}

// 物理在庫の現在値を設定。available = newStock - reserved で再配分
func (r *InventoryGormRepository) SetStock(ctx context.Context, variantID int64, newStock int64) (model.ProductVariant, error) {
	if newStock < 0 {
		return model.ProductVariant{}, errors.New("invalid stock")
	}

	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&v, variantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductVariant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductVariant{}, err
	}

	//引当済みより少ない物理在庫は設定できない
	if !v.ResetStock(newStock) {
		return model.ProductVariant{}, repo.ErrStockBelowReserved
	}
	if err := r.saveCounters(ctx, v); err != nil {
		return model.ProductVariant{}, err
	}
	return v, nil
}

// 調整履歴作成
func (r *InventoryGormRepository) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	if err := r.db.WithContext(ctx).Create(&adj).Error; err != nil {
		return err
	}
	return nil
}
