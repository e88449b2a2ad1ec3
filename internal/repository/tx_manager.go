package repository

import (
	"context"
	"errors"
)

// DBがタイムアウト・応答不能のとき
var ErrStorageTimeout = errors.New("storage timeout")

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	CustomOrders() CustomOrderRepository
	Schedules() DeliveryScheduleRepository
	Couriers() CourierRepository
	Cancellations() CancellationRequestRepository
	Refunds() RefundRequestRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Inventory() InventoryRepository
	Variants() VariantRepository
	Products() ProductRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// 実装はタイムアウトを課し、デッドロック等の一時障害は1回だけ再試行する。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
