package model

import "time"

// 在庫の粗いステータス。available_quantityから導出する。
type StockStatus string

const (
	StockStatusOut      StockStatus = "OUT_OF_STOCK"
	StockStatusCritical StockStatus = "CRITICAL_STOCK"
	StockStatusLow      StockStatus = "LOW_STOCK"
	StockStatusIn       StockStatus = "IN_STOCK"
)

const (
	criticalStockMax = 5
	lowStockMax      = 15
)

// available_quantityからstock_statusを導出する（唯一の定義）。
func StockStatusFor(available int64) StockStatus {
	switch {
	case available <= 0:
		return StockStatusOut
	case available <= criticalStockMax:
		return StockStatusCritical
	case available <= lowStockMax:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// 商品バリアント（product_id, size, color）ごとの在庫カウンタ。
// カウンタの増減は下のメソッド群を通す。
// 不変条件: stock_quantity = available_quantity + reserved_quantity、全て非負。
type ProductVariant struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64  `gorm:"not null;index:idx_variant_key,unique" json:"product_id"`
	Size      string `gorm:"type:varchar(20);not null;index:idx_variant_key,unique" json:"size"`
	Color     string `gorm:"type:varchar(50);not null;index:idx_variant_key,unique" json:"color"`

	//物理在庫
	StockQuantity int64 `gorm:"not null;default:0" json:"stock_quantity"`
	//今すぐ売れる数
	AvailableQuantity int64 `gorm:"not null;default:0" json:"available_quantity"`
	//注文に引き当て済みの数
	ReservedQuantity int64 `gorm:"not null;default:0" json:"reserved_quantity"`

	StockStatus StockStatus `gorm:"type:varchar(20);not null;default:'OUT_OF_STOCK'" json:"stock_status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// availableが足りるときだけ available→reserved に移す。足りなければfalseでカウンタは触らない
func (v *ProductVariant) ReserveStock(qty int64) bool {
	if v.AvailableQuantity < qty {
		return false
	}
	v.AvailableQuantity -= qty
	v.ReservedQuantity += qty
	v.StockStatus = StockStatusFor(v.AvailableQuantity)
	return true
}

// reserved→available に戻す（キャンセル承認）。reservedは0でクランプ
func (v *ProductVariant) ReleaseStock(qty int64) {
	rel := qty
	if rel > v.ReservedQuantity {
		rel = v.ReservedQuantity
	}
	v.ReservedQuantity -= rel
	v.AvailableQuantity += rel
	v.StockStatus = StockStatusFor(v.AvailableQuantity)
}

// 配達完了の確定消費。reservedとstock_quantityを同時に減らす
func (v *ProductVariant) CommitStock(qty int64) {
	take := qty
	if take > v.ReservedQuantity {
		take = v.ReservedQuantity
	}
	v.ReservedQuantity -= take
	v.StockQuantity -= take
	v.StockStatus = StockStatusFor(v.AvailableQuantity)
}

// 物理在庫の現在値を設定し直す。available = newStock - reserved で再配分。
// 引当済みより少ない物理在庫は設定できない（false）
func (v *ProductVariant) ResetStock(newStock int64) bool {
	if newStock < v.ReservedQuantity {
		return false
	}
	v.StockQuantity = newStock
	v.AvailableQuantity = newStock - v.ReservedQuantity
	v.StockStatus = StockStatusFor(v.AvailableQuantity)
	return true
}
