package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type PlaceOrderItemInput struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity"`
}

type PlaceOrderInput struct {
	//空ならACTIVEカートの明細を使う
	Items []PlaceOrderItemInput

	ShippingName    string
	ShippingPhone   string
	ShippingAddress string

	//カスタムオーダー購入のシェル注文にする場合は公開ID（CUSTOM-...）
	CustomOrderPublicID string

	IdempotencyKey string
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type OrderOutput struct {
	ID                  int64             `json:"id"`
	OrderNumber         string            `json:"order_number"`
	UserID              int64             `json:"user_id"`
	Status              string            `json:"status"`
	TotalPrice          int64             `json:"total_price"`
	LinkedCustomOrderID *int64            `json:"linked_custom_order_id,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	Items               []OrderItemOutput `json:"items"`
}

// 注文番号（人が見るID）。ORD-YYYYMMDD-XXXXXX
func newOrderNumber(now time.Time) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), token[:6])
}

func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}
	if strings.TrimSpace(in.ShippingName) == "" || strings.TrimSpace(in.ShippingAddress) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid shipping info")
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 1 || strings.TrimSpace(it.Size) == "" || strings.TrimSpace(it.Color) == "" {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid items")
		}
	}

	var out OrderOutput

	//在庫引当と注文作成はひとつのトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return dbError(err)
		}
		if found {
			//既存注文を返す（在庫は二重に引き当てない）
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return dbError(err)
			}
			out = toOrderOutput(existing, items)
			return nil
		}

		lines, fromCart, cartID, err := u.collectLines(ctx, r, userID, in.Items)
		if err != nil {
			return err
		}

		//カスタム購入のシェルなら対象を解決して紐づける
		var linkedCustomID *int64
		var customPrice int64
		if strings.TrimSpace(in.CustomOrderPublicID) != "" {
			co, found, err := r.CustomOrders().FindByPublicID(ctx, strings.TrimSpace(in.CustomOrderPublicID))
			if err != nil {
				return dbError(err)
			}
			if !found || co.UserID != userID {
				return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "custom order not found")
			}
			if co.ApprovalStatus != model.ApprovalStatusApproved {
				return NewBusinessError(http.StatusConflict, CodeInvalidTransition, "custom order not approved")
			}
			id := co.ID
			linkedCustomID = &id
			customPrice = co.EstimatedPrice
			if co.FinalPrice != nil {
				customPrice = *co.FinalPrice
			}
		}

		if len(lines) == 0 && linkedCustomID == nil {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//在庫を確定時に再チェックして引き当てる（受注生産のカスタム分は在庫なし）
		orderItems := make([]model.OrderItem, 0, len(lines))
		var total int64 = customPrice

		now := time.Now()
		for _, ln := range lines {
			p, err := r.Products().FindByID(ctx, ln.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}
			if err != nil {
				return dbError(err)
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}

			//引当（足りないなら false）
			ok, err := r.Inventory().Reserve(ctx, ln.ProductID, ln.Size, ln.Color, ln.Quantity)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "invalid variant")
			}
			if err != nil {
				return dbError(err)
			}
			if !ok {
				return NewBusinessError(http.StatusConflict, CodeInsufficientStock,
					fmt.Sprintf("insufficient stock: product=%d size=%s color=%s", ln.ProductID, ln.Size, ln.Color))
			}

			//スナップショット
			price := ln.UnitPrice
			if price == 0 {
				price = p.Price
			}
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ln.ProductID,
				Size:                ln.Size,
				Color:               ln.Color,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   price,
				Quantity:            ln.Quantity,
				CreatedAt:           now,
			})
			total += price * ln.Quantity
		}

		// 注文作成
		order := model.Order{
			OrderNumber:         newOrderNumber(now),
			UserID:              userID,
			Status:              model.OrderStatusPending,
			TotalPrice:          total,
			ShippingName:        strings.TrimSpace(in.ShippingName),
			ShippingPhone:       strings.TrimSpace(in.ShippingPhone),
			ShippingAddress:     strings.TrimSpace(in.ShippingAddress),
			LinkedCustomOrderID: linkedCustomID,
			IdempotencyKey:      key,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			//競合（同時で同じキーが入った等）はもう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err2 == nil && found2 {
				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return dbError(err3)
				}
				out = toOrderOutput(ex2, items2)
				return nil
			}
			return NewHTTPError(http.StatusBadRequest, "idempotency conflict")
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return dbError(err)
		}

		//カート経由ならCHECKED_OUTにして明細をクリア（再注文防止）
		if fromCart {
			if err := r.Carts().UpdateStatus(ctx, cartID, model.CartStatusCheckedOut); err != nil {
				return dbError(err)
			}
			if err := r.Carts().Clear(ctx, cartID); err != nil {
				return dbError(err)
			}
		}

		order.ID = orderID
		out = toOrderOutput(order, orderItems)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

type orderLine struct {
	ProductID int64
	Size      string
	Color     string
	Quantity  int64
	UnitPrice int64
}

// 注文明細の元ネタを集める。bodyのitemsが空ならACTIVEカートから
func (u *OrderUsecase) collectLines(ctx context.Context, r repo.TxRepos, userID int64, items []PlaceOrderItemInput) ([]orderLine, bool, int64, error) {
	if len(items) > 0 {
		lines := make([]orderLine, 0, len(items))
		for _, it := range items {
			lines = append(lines, orderLine{
				ProductID: it.ProductID,
				Size:      strings.TrimSpace(it.Size),
				Color:     strings.TrimSpace(it.Color),
				Quantity:  it.Quantity,
			})
		}
		return lines, false, 0, nil
	}

	cart, err := r.Carts().FindActiveByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return nil, false, 0, nil
	}
	if err != nil {
		return nil, false, 0, dbError(err)
	}

	cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return nil, false, 0, dbError(err)
	}

	lines := make([]orderLine, 0, len(cartItems))
	for _, ci := range cartItems {
		lines = append(lines, orderLine{
			ProductID: ci.ProductID,
			Size:      ci.Size,
			Color:     ci.Color,
			Quantity:  ci.Quantity,
			UnitPrice: ci.UnitPriceSnapshot,
		})
	}
	return lines, true, cart.ID, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//ページングでまずは固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return dbError(err)
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return dbError(err)
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 注文参照（order_number または CUSTOM- 公開ID）で1件取得。
// カスタムに解決された場合は決済シェル注文を返す
func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, ref string) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ro, err := resolveOrderRef(ctx, r.Orders(), r.CustomOrders(), ref)
		if err != nil {
			return err
		}
		if !ro.HasOrder {
			return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
		}
		if ro.Order.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, ro.Order.ID)
		if err != nil {
			return dbError(err)
		}

		out = toOrderOutput(ro.Order, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Size:      it.Size,
			Color:     it.Color,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return OrderOutput{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		UserID:              o.UserID,
		Status:              string(o.Status),
		TotalPrice:          o.TotalPrice,
		LinkedCustomOrderID: o.LinkedCustomOrderID,
		CreatedAt:           o.CreatedAt,
		Items:               outItems,
	}
}
