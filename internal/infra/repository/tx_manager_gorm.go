package repository

import (
	"context"
	"errors"
	"time"

	repo "app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type txReposGorm struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	customOrders  repo.CustomOrderRepository
	schedules     repo.DeliveryScheduleRepository
	couriers      repo.CourierRepository
	cancellations repo.CancellationRequestRepository
	refunds       repo.RefundRequestRepository
	carts         repo.CartRepository
	cartItems     repo.CartItemRepository
	inventory     repo.InventoryRepository
	variants      repo.VariantRepository
	products      repo.ProductRepository
	auditLogs     repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                      { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository              { return r.orderItems }
func (r *txReposGorm) CustomOrders() repo.CustomOrderRepository          { return r.customOrders }
func (r *txReposGorm) Schedules() repo.DeliveryScheduleRepository        { return r.schedules }
func (r *txReposGorm) Couriers() repo.CourierRepository                  { return r.couriers }
func (r *txReposGorm) Cancellations() repo.CancellationRequestRepository { return r.cancellations }
func (r *txReposGorm) Refunds() repo.RefundRequestRepository             { return r.refunds }
func (r *txReposGorm) Carts() repo.CartRepository                        { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository                { return r.cartItems }
func (r *txReposGorm) Inventory() repo.InventoryRepository               { return r.inventory }
func (r *txReposGorm) Variants() repo.VariantRepository                  { return r.variants }
func (r *txReposGorm) Products() repo.ProductRepository                  { return r.products }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository                { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
	//DB呼び出しの上限時間
	timeout time.Duration
}

func NewTxManagerGorm(db *gorm.DB, timeout time.Duration) *TxManagerGorm {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TxManagerGorm{db: db, timeout: timeout}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	ctx, cancel := context.WithTimeout(ctx, tm.timeout)
	defer cancel()

	err := tm.run(ctx, fn)

	//デッドロック・直列化失敗だけ1回再試行
	if isRetryableTxError(err) {
		err = tm.run(ctx, fn)
	}

	//無限に待たせず、タイムアウトとして返す
	if errors.Is(err, context.DeadlineExceeded) {
		return repo.ErrStorageTimeout
	}
	return err
}

func (tm *TxManagerGorm) run(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:        NewOrderGormRepository(tx),
			orderItems:    NewOrderItemGormRepository(tx),
			customOrders:  NewCustomOrderGormRepository(tx),
			schedules:     NewDeliveryScheduleGormRepository(tx),
			couriers:      NewCourierGormRepository(tx),
			cancellations: NewCancellationRequestGormRepository(tx),
			refunds:       NewRefundRequestGormRepository(tx),
			carts:         NewCartGormRepository(tx),
			cartItems:     NewCartGormRepository(tx),
			inventory:     NewInventoryGormRepository(tx),
			variants:      NewVariantGormRepository(tx),
			products:      NewProductGormRepository(tx),
			auditLogs:     NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}

// 40001=serialization_failure / 40P01=deadlock_detected
func isRetryableTxError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
