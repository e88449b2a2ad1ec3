package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CancellationUsecase struct {
	tx repo.TransactionManager
}

func NewCancellationUsecase(tx repo.TransactionManager) *CancellationUsecase {
	return &CancellationUsecase{tx: tx}
}

type RequestInput struct {
	//注文参照（order_number または CUSTOM- 公開ID）
	OrderRef string `json:"order_ref"`
	Reason   string `json:"reason"`
}

type RequestOutput struct {
	ID            int64      `json:"id"`
	OrderID       *int64     `json:"order_id"`
	CustomOrderID *int64     `json:"custom_order_id"`
	UserID        int64      `json:"user_id"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	AdminNotes    string     `json:"admin_notes"`
	ResolvedAt    *time.Time `json:"resolved_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toCancellationOutput(req model.CancellationRequest) RequestOutput {
	return RequestOutput{
		ID:            req.ID,
		OrderID:       req.OrderID,
		CustomOrderID: req.CustomOrderID,
		UserID:        req.UserID,
		Reason:        req.Reason,
		Status:        string(req.Status),
		AdminNotes:    req.AdminNotes,
		ResolvedAt:    req.ResolvedAt,
		CreatedAt:     req.CreatedAt,
	}
}

func toRefundOutput(req model.RefundRequest) RequestOutput {
	return RequestOutput{
		ID:            req.ID,
		OrderID:       req.OrderID,
		CustomOrderID: req.CustomOrderID,
		UserID:        req.UserID,
		Reason:        req.Reason,
		Status:        string(req.Status),
		AdminNotes:    req.AdminNotes,
		ResolvedAt:    req.ResolvedAt,
		CreatedAt:     req.CreatedAt,
	}
}

// キャンセル申請。終端状態の注文と申請済みの注文は受け付けない
func (u *CancellationUsecase) RequestCancellation(ctx context.Context, userID int64, in RequestInput) (RequestOutput, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return RequestOutput{}, NewHTTPError(http.StatusBadRequest, "reason required")
	}

	var out RequestOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ro, err := resolveOrderRef(ctx, r.Orders(), r.CustomOrders(), in.OrderRef)
		if err != nil {
			return err
		}
		if ro.UserID() != userID {
			return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
		}

		//終端状態のものはキャンセルできない
		if ro.Kind == model.OrderKindCustom {
			co := ro.CustomOrder
			if !model.CanTransitionApproval(co.ApprovalStatus, model.ApprovalStatusCanceled) {
				return NewBusinessError(http.StatusConflict, CodeNotCancellable,
					"custom order in "+string(co.ApprovalStatus)+" cannot be cancelled")
			}
			if co.DeliveryStatus == model.DeliveryStatusDelivered {
				return NewBusinessError(http.StatusConflict, CodeNotCancellable, "already delivered")
			}
		} else {
			if !model.CanTransitionOrder(ro.Order.Status, model.OrderStatusCanceled) {
				return NewBusinessError(http.StatusConflict, CodeNotCancellable,
					"order in "+string(ro.Order.Status)+" cannot be cancelled")
			}
		}

		ref := ro.Ref()
		exists, err := r.Cancellations().ExistsPendingForRef(ctx, ref)
		if err != nil {
			return dbError(err)
		}
		if exists {
			return NewBusinessError(http.StatusConflict, CodeAlreadyRequested, "cancellation already requested")
		}

		now := time.Now()
		req := model.CancellationRequest{
			UserID:    userID,
			Reason:    strings.TrimSpace(in.Reason),
			Status:    model.RequestStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if ro.Kind == model.OrderKindCustom {
			id := ro.CustomOrder.ID
			req.CustomOrderID = &id
		} else {
			id := ro.Order.ID
			req.OrderID = &id
		}

		reqID, err := r.Cancellations().Create(ctx, req)
		if err != nil {
			return dbError(err)
		}
		req.ID = reqID
		out = toCancellationOutput(req)
		return nil
	})

	if err != nil {
		return RequestOutput{}, err
	}
	return out, nil
}

// 申請の承認・却下。承認なら注文のキャンセル・在庫戻し・スケジュール取り消しまで
// ひとつのトランザクションで行う。二重実行は行ロック＋PENDINGチェックで防ぐ
func (u *CancellationUsecase) ResolveCancellation(ctx context.Context, adminID int64, requestID int64, approve bool, adminNotes string) (RequestOutput, error) {
	var out RequestOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		req, err := r.Cancellations().FindByIDForUpdate(ctx, requestID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "request not found")
		}
		if err != nil {
			return dbError(err)
		}
		if req.Status != model.RequestStatusPending {
			return NewBusinessError(http.StatusConflict, CodeInvalidTransition, "request already resolved")
		}

		target := model.RequestStatusRejected
		if approve {
			target = model.RequestStatusApproved
			if err := u.cancelTarget(ctx, r, req); err != nil {
				return err
			}
		}

		if err := r.Cancellations().Resolve(ctx, req.ID, target, adminNotes); err != nil {
			return dbError(err)
		}

		if err := writeAudit(ctx, r, adminID, model.AuditActionResolveRequest, model.AuditResourceRequest, req.ID,
			map[string]any{"status": req.Status},
			map[string]any{"status": target, "admin_notes": adminNotes},
		); err != nil {
			return dbError(err)
		}

		req.Status = target
		req.AdminNotes = adminNotes
		now := time.Now()
		req.ResolvedAt = &now
		out = toCancellationOutput(req)
		return nil
	})

	if err != nil {
		return RequestOutput{}, err
	}
	return out, nil
}

// 承認時の実処理。注文をCANCELEDにし、引当在庫を戻し、スケジュールを取り消す
func (u *CancellationUsecase) cancelTarget(ctx context.Context, r repo.TxRepos, req model.CancellationRequest) error {
	if req.CustomOrderID != nil {
		return u.cancelCustom(ctx, r, *req.CustomOrderID)
	}
	if req.OrderID != nil {
		return u.cancelRegular(ctx, r, *req.OrderID)
	}
	return NewHTTPError(http.StatusInternalServerError, "request has no target")
}

func (u *CancellationUsecase) cancelRegular(ctx context.Context, r repo.TxRepos, orderID int64) error {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
	}
	if err != nil {
		return dbError(err)
	}
	if !model.CanTransitionOrder(o.Status, model.OrderStatusCanceled) {
		return NewBusinessError(http.StatusConflict, CodeNotCancellable,
			"order in "+string(o.Status)+" cannot be cancelled")
	}

	if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusCanceled); err != nil {
		return dbError(err)
	}

	//在庫戻し（キャンセル）。引当を明細ぶんだけavailableへ返す
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return dbError(err)
	}
	for _, it := range items {
		if err := r.Inventory().Release(ctx, it.ProductID, it.Size, it.Color, it.Quantity); err != nil {
			return dbError(err)
		}
	}

	return u.cancelActiveSchedule(ctx, r, model.RegularOrderRef(o.ID))
}

func (u *CancellationUsecase) cancelCustom(ctx context.Context, r repo.TxRepos, customOrderID int64) error {
	co, err := r.CustomOrders().FindByID(ctx, customOrderID)
	if err == repo.ErrNotFound {
		return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
	}
	if err != nil {
		return dbError(err)
	}
	if !model.CanTransitionApproval(co.ApprovalStatus, model.ApprovalStatusCanceled) {
		return NewBusinessError(http.StatusConflict, CodeNotCancellable,
			"custom order in "+string(co.ApprovalStatus)+" cannot be cancelled")
	}

	if err := r.CustomOrders().UpdateApprovalStatus(ctx, co.ID, model.ApprovalStatusCanceled); err != nil {
		return dbError(err)
	}
	if model.CanTransitionDelivery(co.DeliveryStatus, model.DeliveryStatusCanceled) {
		if err := r.CustomOrders().UpdateDeliveryStatus(ctx, co.ID, model.DeliveryStatusCanceled); err != nil {
			return dbError(err)
		}
	}

	//決済シェル注文も道連れにする（在庫は持っていない）
	shell, found, err := r.Orders().FindByLinkedCustomOrderID(ctx, co.ID)
	if err != nil {
		return dbError(err)
	}
	if found && model.CanTransitionOrder(shell.Status, model.OrderStatusCanceled) {
		if err := r.Orders().UpdateStatus(ctx, shell.ID, model.OrderStatusCanceled); err != nil {
			return dbError(err)
		}
	}

	return u.cancelActiveSchedule(ctx, r, model.CustomOrderRef(co.ID))
}

func (u *CancellationUsecase) cancelActiveSchedule(ctx context.Context, r repo.TxRepos, ref model.OrderRef) error {
	s, exists, err := r.Schedules().FindActiveByRef(ctx, ref)
	if err != nil {
		return dbError(err)
	}
	if !exists {
		return nil
	}
	if !model.CanTransitionDelivery(s.DeliveryStatus, model.DeliveryStatusCanceled) {
		return NewBusinessError(http.StatusConflict, CodeNotCancellable, "delivery already completed")
	}
	if err := r.Schedules().UpdateStatus(ctx, s.ID, model.DeliveryStatusCanceled, "order cancelled"); err != nil {
		return dbError(err)
	}
	return nil
}

// 返金申請。配送完了後のみ。在庫には触らない
func (u *CancellationUsecase) RequestRefund(ctx context.Context, userID int64, in RequestInput) (RequestOutput, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return RequestOutput{}, NewHTTPError(http.StatusBadRequest, "reason required")
	}

	var out RequestOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ro, err := resolveOrderRef(ctx, r.Orders(), r.CustomOrders(), in.OrderRef)
		if err != nil {
			return err
		}
		if ro.UserID() != userID {
			return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
		}

		delivered := false
		if ro.Kind == model.OrderKindCustom {
			delivered = ro.CustomOrder.DeliveryStatus == model.DeliveryStatusDelivered
		} else {
			delivered = ro.Order.Status == model.OrderStatusDelivered
		}
		if !delivered {
			return NewBusinessError(http.StatusConflict, CodeInvalidTransition, "refund requires a delivered order")
		}

		ref := ro.Ref()
		exists, err := r.Refunds().ExistsPendingForRef(ctx, ref)
		if err != nil {
			return dbError(err)
		}
		if exists {
			return NewBusinessError(http.StatusConflict, CodeAlreadyRequested, "refund already requested")
		}

		now := time.Now()
		req := model.RefundRequest{
			UserID:    userID,
			Reason:    strings.TrimSpace(in.Reason),
			Status:    model.RequestStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if ro.Kind == model.OrderKindCustom {
			id := ro.CustomOrder.ID
			req.CustomOrderID = &id
		} else {
			id := ro.Order.ID
			req.OrderID = &id
		}

		reqID, err := r.Refunds().Create(ctx, req)
		if err != nil {
			return dbError(err)
		}
		req.ID = reqID
		out = toRefundOutput(req)
		return nil
	})

	if err != nil {
		return RequestOutput{}, err
	}
	return out, nil
}

// 返金申請の承認・却下。どちらでも在庫・注文ステータスには触らない
func (u *CancellationUsecase) ResolveRefund(ctx context.Context, adminID int64, requestID int64, approve bool, adminNotes string) (RequestOutput, error) {
	var out RequestOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		req, err := r.Refunds().FindByIDForUpdate(ctx, requestID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "request not found")
		}
		if err != nil {
			return dbError(err)
		}
		if req.Status != model.RequestStatusPending {
			return NewBusinessError(http.StatusConflict, CodeInvalidTransition, "request already resolved")
		}

		target := model.RequestStatusRejected
		if approve {
			target = model.RequestStatusApproved
		}

		if err := r.Refunds().Resolve(ctx, req.ID, target, adminNotes); err != nil {
			return dbError(err)
		}

		if err := writeAudit(ctx, r, adminID, model.AuditActionResolveRequest, model.AuditResourceRequest, req.ID,
			map[string]any{"status": req.Status},
			map[string]any{"status": target, "admin_notes": adminNotes},
		); err != nil {
			return dbError(err)
		}

		req.Status = target
		req.AdminNotes = adminNotes
		now := time.Now()
		req.ResolvedAt = &now
		out = toRefundOutput(req)
		return nil
	})

	if err != nil {
		return RequestOutput{}, err
	}
	return out, nil
}

// 管理者向け：未処理の申請一覧
func (u *CancellationUsecase) ListPendingCancellations(ctx context.Context, page int, limit int) ([]RequestOutput, int64, error) {
	var outs []RequestOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		list, n, err := r.Cancellations().ListPending(ctx, page, limit)
		if err != nil {
			return dbError(err)
		}
		total = n
		outs = make([]RequestOutput, 0, len(list))
		for _, req := range list {
			outs = append(outs, toCancellationOutput(req))
		}
		return nil
	})

	if err != nil {
		return []RequestOutput{}, 0, err
	}
	return outs, total, nil
}

func (u *CancellationUsecase) ListPendingRefunds(ctx context.Context, page int, limit int) ([]RequestOutput, int64, error) {
	var outs []RequestOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		list, n, err := r.Refunds().ListPending(ctx, page, limit)
		if err != nil {
			return dbError(err)
		}
		total = n
		outs = make([]RequestOutput, 0, len(list))
		for _, req := range list {
			outs = append(outs, toRefundOutput(req))
		}
		return nil
	})

	if err != nil {
		return []RequestOutput{}, 0, err
	}
	return outs, total, nil
}
