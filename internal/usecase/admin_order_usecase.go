package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) ([]OrderOutput, int64, error) {
	var outs []OrderOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, n, err := r.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
			UserID: in.UserID,
			From:   in.From,
			To:     in.To,
		})
		if err != nil {
			return dbError(err)
		}
		total = n
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
		return []OrderOutput{}, 0, err
	}
	return outs, total, nil
}

// 通常注文のステータス更新（前進のみ）。
// CANCELEDはキャンセル申請の承認経由、DELIVEREDは配送側からの波及でのみ入る
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminID int64, ref string, status model.OrderStatus) (OrderOutput, error) {
	switch status {
	case model.OrderStatusConfirmed, model.OrderStatusProcessing, model.OrderStatusShipped:
	case model.OrderStatusCanceled:
		return OrderOutput{}, NewBusinessError(http.StatusConflict, CodeInvalidTransition,
			"cancellation goes through cancellation requests")
	case model.OrderStatusDelivered:
		return OrderOutput{}, NewBusinessError(http.StatusConflict, CodeInvalidTransition,
			"DELIVERED is set by the delivery schedule")
	default:
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ro, err := resolveOrderRef(ctx, r.Orders(), r.CustomOrders(), ref)
		if err != nil {
			return err
		}
		if !ro.HasOrder {
			//注文レコードを持たないカスタムオーダーは配送・承認APIで扱う
			return NewBusinessError(http.StatusConflict, CodeInvalidTransition,
				"custom orders are managed via approval and delivery APIs")
		}
		o := ro.Order

		if !model.CanTransitionOrder(o.Status, status) {
			return NewBusinessError(http.StatusConflict, CodeInvalidTransition,
				"cannot transition order from "+string(o.Status)+" to "+string(status))
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, status); err != nil {
			return dbError(err)
		}

		if err := writeAudit(ctx, r, adminID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, o.ID,
			map[string]any{"status": o.Status},
			map[string]any{"status": status},
		); err != nil {
			return dbError(err)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return dbError(err)
		}
		o.Status = status
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}
