package usecase

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// トランザクションを素通しするテスト用TxManager
type txManagerMock struct {
	repos *txReposMock
}

func (m *txManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

type txReposMock struct {
	orders        *orderRepoMock
	orderItems    *orderItemRepoMock
	customOrders  *customOrderRepoMock
	schedules     *scheduleRepoMock
	couriers      *courierRepoMock
	cancellations *cancellationRepoMock
	refunds       *refundRepoMock
	carts         *cartRepoMock
	cartItems     *cartItemRepoMock
	inventory     *inventoryRepoMock
	variants      *variantRepoMock
	products      *productRepoMock
	auditLogs     *auditLogRepoMock
}

func newTxReposMock() *txReposMock {
	return &txReposMock{
		orders:        &orderRepoMock{},
		orderItems:    &orderItemRepoMock{},
		customOrders:  &customOrderRepoMock{},
		schedules:     &scheduleRepoMock{},
		couriers:      &courierRepoMock{},
		cancellations: &cancellationRepoMock{},
		refunds:       &refundRepoMock{},
		carts:         &cartRepoMock{},
		cartItems:     &cartItemRepoMock{},
		inventory:     &inventoryRepoMock{},
		variants:      &variantRepoMock{},
		products:      &productRepoMock{},
		auditLogs:     &auditLogRepoMock{},
	}
}

func newTxManagerMock() (*txManagerMock, *txReposMock) {
	repos := newTxReposMock()
	return &txManagerMock{repos: repos}, repos
}

func (r *txReposMock) Orders() repo.OrderRepository                      { return r.orders }
func (r *txReposMock) OrderItems() repo.OrderItemRepository              { return r.orderItems }
func (r *txReposMock) CustomOrders() repo.CustomOrderRepository          { return r.customOrders }
func (r *txReposMock) Schedules() repo.DeliveryScheduleRepository        { return r.schedules }
func (r *txReposMock) Couriers() repo.CourierRepository                  { return r.couriers }
func (r *txReposMock) Cancellations() repo.CancellationRequestRepository { return r.cancellations }
func (r *txReposMock) Refunds() repo.RefundRequestRepository             { return r.refunds }
func (r *txReposMock) Carts() repo.CartRepository                        { return r.carts }
func (r *txReposMock) CartItems() repo.CartItemRepository                { return r.cartItems }
func (r *txReposMock) Inventory() repo.InventoryRepository               { return r.inventory }
func (r *txReposMock) Variants() repo.VariantRepository                  { return r.variants }
func (r *txReposMock) Products() repo.ProductRepository                  { return r.products }
func (r *txReposMock) AuditLogs() repo.AuditLogRepository                { return r.auditLogs }

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderRepoMock) FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(model.Order), args.Error(1)
}

func (m *orderRepoMock) FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Get(0).(model.Order), args.Bool(1), args.Error(2)
}

func (m *orderRepoMock) FindByLinkedCustomOrderID(ctx context.Context, customOrderID int64) (model.Order, bool, error) {
	args := m.Called(ctx, customOrderID)
	return args.Get(0).(model.Order), args.Bool(1), args.Error(2)
}

func (m *orderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *orderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *orderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *orderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(model.Order), args.Bool(1), args.Error(2)
}

func (m *orderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

type orderItemRepoMock struct{ mock.Mock }

func (m *orderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *orderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]model.OrderItem), args.Error(1)
}

type customOrderRepoMock struct{ mock.Mock }

func (m *customOrderRepoMock) FindByID(ctx context.Context, id int64) (model.CustomOrder, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.CustomOrder), args.Error(1)
}

func (m *customOrderRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.CustomOrder, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.CustomOrder), args.Error(1)
}

func (m *customOrderRepoMock) FindByPublicID(ctx context.Context, publicID string) (model.CustomOrder, bool, error) {
	args := m.Called(ctx, publicID)
	return args.Get(0).(model.CustomOrder), args.Bool(1), args.Error(2)
}

func (m *customOrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.CustomOrder, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]model.CustomOrder), args.Get(1).(int64), args.Error(2)
}

func (m *customOrderRepoMock) ListAdmin(ctx context.Context, f repo.CustomOrderListFilter) ([]model.CustomOrder, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.CustomOrder), args.Get(1).(int64), args.Error(2)
}

func (m *customOrderRepoMock) Create(ctx context.Context, co model.CustomOrder) (int64, error) {
	args := m.Called(ctx, co)
	return args.Get(0).(int64), args.Error(1)
}

func (m *customOrderRepoMock) UpdateApprovalStatus(ctx context.Context, id int64, status model.ApprovalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *customOrderRepoMock) UpdateDeliveryStatus(ctx context.Context, id int64, status model.DeliveryStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *customOrderRepoMock) MarkPaymentVerified(ctx context.Context, id int64, finalPrice int64) error {
	args := m.Called(ctx, id, finalPrice)
	return args.Error(0)
}

type scheduleRepoMock struct{ mock.Mock }

func (m *scheduleRepoMock) FindByID(ctx context.Context, id int64) (model.DeliverySchedule, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.DeliverySchedule), args.Error(1)
}

func (m *scheduleRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.DeliverySchedule, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.DeliverySchedule), args.Error(1)
}

func (m *scheduleRepoMock) FindActiveByRef(ctx context.Context, ref model.OrderRef) (model.DeliverySchedule, bool, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(model.DeliverySchedule), args.Bool(1), args.Error(2)
}

func (m *scheduleRepoMock) Create(ctx context.Context, s model.DeliverySchedule) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *scheduleRepoMock) Update(ctx context.Context, s model.DeliverySchedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *scheduleRepoMock) UpdateStatus(ctx context.Context, id int64, status model.DeliveryStatus, notes string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}

func (m *scheduleRepoMock) AssignCourier(ctx context.Context, id int64, courierID int64) error {
	args := m.Called(ctx, id, courierID)
	return args.Error(0)
}

func (m *scheduleRepoMock) ListActiveByCourier(ctx context.Context, courierID int64) ([]model.DeliverySchedule, error) {
	args := m.Called(ctx, courierID)
	return args.Get(0).([]model.DeliverySchedule), args.Error(1)
}

func (m *scheduleRepoMock) CountActiveByCourier(ctx context.Context, courierID int64) (int64, error) {
	args := m.Called(ctx, courierID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *scheduleRepoMock) ListByDateRange(ctx context.Context, from time.Time, to time.Time) ([]model.DeliverySchedule, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]model.DeliverySchedule), args.Error(1)
}

type courierRepoMock struct{ mock.Mock }

func (m *courierRepoMock) FindByID(ctx context.Context, id int64) (model.Courier, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Courier), args.Error(1)
}

func (m *courierRepoMock) List(ctx context.Context) ([]model.Courier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Courier), args.Error(1)
}

func (m *courierRepoMock) Create(ctx context.Context, c model.Courier) (model.Courier, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(model.Courier), args.Error(1)
}

func (m *courierRepoMock) Update(ctx context.Context, c model.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *courierRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type cancellationRepoMock struct{ mock.Mock }

func (m *cancellationRepoMock) FindByID(ctx context.Context, id int64) (model.CancellationRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.CancellationRequest), args.Error(1)
}

func (m *cancellationRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.CancellationRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.CancellationRequest), args.Error(1)
}

func (m *cancellationRepoMock) ExistsPendingForRef(ctx context.Context, ref model.OrderRef) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

func (m *cancellationRepoMock) ListPending(ctx context.Context, page int, limit int) ([]model.CancellationRequest, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]model.CancellationRequest), args.Get(1).(int64), args.Error(2)
}

func (m *cancellationRepoMock) Create(ctx context.Context, req model.CancellationRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *cancellationRepoMock) Resolve(ctx context.Context, id int64, status model.RequestStatus, adminNotes string) error {
	args := m.Called(ctx, id, status, adminNotes)
	return args.Error(0)
}

type refundRepoMock struct{ mock.Mock }

func (m *refundRepoMock) FindByID(ctx context.Context, id int64) (model.RefundRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.RefundRequest), args.Error(1)
}

func (m *refundRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.RefundRequest, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.RefundRequest), args.Error(1)
}

func (m *refundRepoMock) ExistsPendingForRef(ctx context.Context, ref model.OrderRef) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}

func (m *refundRepoMock) ListPending(ctx context.Context, page int, limit int) ([]model.RefundRequest, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]model.RefundRequest), args.Get(1).(int64), args.Error(2)
}

func (m *refundRepoMock) Create(ctx context.Context, req model.RefundRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *refundRepoMock) Resolve(ctx context.Context, id int64, status model.RequestStatus, adminNotes string) error {
	args := m.Called(ctx, id, status, adminNotes)
	return args.Error(0)
}

type cartRepoMock struct{ mock.Mock }

func (m *cartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *cartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Cart), args.Error(1)
}

func (m *cartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *cartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type cartItemRepoMock struct{ mock.Mock }

func (m *cartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *cartItemRepoMock) UpsertByCartAndVariant(ctx context.Context, cartID int64, productID int64, size string, color string, addQty int64, unitPriceSnapshot int64) error {
	args := m.Called(ctx, cartID, productID, size, color, addQty, unitPriceSnapshot)
	return args.Error(0)
}

func (m *cartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *cartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *cartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	return args.Get(0).(model.CartItem), args.Error(1)
}

func (m *cartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type inventoryRepoMock struct{ mock.Mock }

func (m *inventoryRepoMock) Reserve(ctx context.Context, productID int64, size string, color string, qty int64) (bool, error) {
	args := m.Called(ctx, productID, size, color, qty)
	return args.Bool(0), args.Error(1)
}

func (m *inventoryRepoMock) Release(ctx context.Context, productID int64, size string, color string, qty int64) error {
	args := m.Called(ctx, productID, size, color, qty)
	return args.Error(0)
}

func (m *inventoryRepoMock) Commit(ctx context.Context, productID int64, size string, color string, qty int64) error {
	args := m.Called(ctx, productID, size, color, qty)
	return args.Error(0)
}

func (m *inventoryRepoMock) SetStock(ctx context.Context, variantID int64, newStock int64) (model.ProductVariant, error) {
	args := m.Called(ctx, variantID, newStock)
	return args.Get(0).(model.ProductVariant), args.Error(1)
}

func (m *inventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type variantRepoMock struct{ mock.Mock }

func (m *variantRepoMock) FindByID(ctx context.Context, id int64) (model.ProductVariant, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.ProductVariant), args.Error(1)
}

func (m *variantRepoMock) FindByKey(ctx context.Context, productID int64, size string, color string) (model.ProductVariant, error) {
	args := m.Called(ctx, productID, size, color)
	return args.Get(0).(model.ProductVariant), args.Error(1)
}

func (m *variantRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]model.ProductVariant), args.Error(1)
}

func (m *variantRepoMock) Create(ctx context.Context, v model.ProductVariant) (model.ProductVariant, error) {
	args := m.Called(ctx, v)
	return args.Get(0).(model.ProductVariant), args.Error(1)
}

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Product), args.Get(1).(int64), args.Error(2)
}

func (m *productRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *productRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *productRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *productRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type auditLogRepoMock struct{ mock.Mock }

func (m *auditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *auditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.AuditLog), args.Error(1)
}
