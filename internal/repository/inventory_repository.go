package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// 引当済みより少ない物理在庫は設定できない
var ErrStockBelowReserved = errors.New("stock below reserved")

// バリアント在庫カウンタの台帳操作。
// いずれも行ロック＋カウンタ更新＋stock_status再計算を1回の呼び出しで行い、
// トランザクション内（TxRepos経由）で使う。
type InventoryRepository interface {
	// available が足りるときだけ available→reserved に移す
	Reserve(ctx context.Context, productID int64, size string, color string, qty int64) (bool, error)

	// reserved→available に戻す（キャンセル承認など）。reservedは0でクランプ
	Release(ctx context.Context, productID int64, size string, color string, qty int64) error

	// 配達完了で reserved と stock_quantity を減らす（物理在庫の消費）
	Commit(ctx context.Context, productID int64, size string, color string, qty int64) error

	// 物理在庫の現在値を設定（available = newStock - reserved で再配分）
	SetStock(ctx context.Context, variantID int64, newStock int64) (model.ProductVariant, error)

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
