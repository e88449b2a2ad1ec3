package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type DeliveryUsecase struct {
	tx repo.TransactionManager
	//カスタムオーダーの製作リードタイム（日数）
	leadDays int
}

func NewDeliveryUsecase(tx repo.TransactionManager, leadDays int) *DeliveryUsecase {
	return &DeliveryUsecase{tx: tx, leadDays: leadDays}
}

type ScheduleDeliveryInput struct {
	//注文参照（order_number または CUSTOM- 公開ID）
	OrderRef     string `json:"order_ref"`
	DeliveryDate string `json:"delivery_date"` // YYYY-MM-DD
	TimeSlot     string `json:"delivery_time_slot"`
	Address      string `json:"address"`
	CourierID    *int64 `json:"courier_id"`
	Notes        string `json:"notes"`
	//リードタイム明け前でも配達日を許可する（管理者の明示前倒し）
	OverrideLeadTime bool `json:"override_lead_time"`
}

type ScheduleOutput struct {
	ID             int64     `json:"id"`
	OrderID        int64     `json:"order_id"`
	OrderType      string    `json:"order_type"`
	DeliveryStatus string    `json:"delivery_status"`
	DeliveryDate   time.Time `json:"delivery_date"`
	TimeSlot       string    `json:"delivery_time_slot"`
	Address        string    `json:"address"`
	CourierID      *int64    `json:"courier_id"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

func toScheduleOutput(s model.DeliverySchedule) ScheduleOutput {
	return ScheduleOutput{
		ID:             s.ID,
		OrderID:        s.OrderID,
		OrderType:      string(s.OrderType),
		DeliveryStatus: string(s.DeliveryStatus),
		DeliveryDate:   s.DeliveryDate,
		TimeSlot:       s.TimeSlot,
		Address:        s.Address,
		CourierID:      s.CourierID,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
	}
}

// スケジュール作成。重複チェック・注文側のステータス前進まで1トランザクション。
// 「スケジュールが存在するのに配送ステータスが進んでいない」中間状態は作らない
func (u *DeliveryUsecase) Schedule(ctx context.Context, adminID int64, in ScheduleDeliveryInput) (ScheduleOutput, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(in.DeliveryDate))
	if err != nil {
		return ScheduleOutput{}, NewHTTPError(http.StatusBadRequest, "invalid delivery_date")
	}
	if strings.TrimSpace(in.Address) == "" || strings.TrimSpace(in.TimeSlot) == "" {
		return ScheduleOutput{}, NewHTTPError(http.StatusBadRequest, "address and delivery_time_slot required")
	}

	var out ScheduleOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ro, err := resolveOrderRef(ctx, r.Orders(), r.CustomOrders(), in.OrderRef)
		if err != nil {
			return err
		}
		ref := ro.Ref()

		//注文行をFOR UPDATEで取り直す。初回スケジュールには重複チェックで掴める行が無いので、
		//親の注文行をロックして同時作成を直列化する。前提チェックもこの取り直した行で行う
		if ro.Kind == model.OrderKindCustom {
			co, err := r.CustomOrders().FindByIDForUpdate(ctx, ro.CustomOrder.ID)
			if err == repo.ErrNotFound {
				return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
			}
			if err != nil {
				return dbError(err)
			}
			ro.CustomOrder = co
		} else {
			o, err := r.Orders().FindByIDForUpdate(ctx, ro.Order.ID)
			if err == repo.ErrNotFound {
				return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
			}
			if err != nil {
				return dbError(err)
			}
			ro.Order = o
		}

		//キャンセル済み以外のスケジュールは注文につき1件だけ
		_, exists, err := r.Schedules().FindActiveByRef(ctx, ref)
		if err != nil {
			return dbError(err)
		}
		if exists {
			return NewBusinessError(http.StatusConflict, CodeDuplicateSchedule, "schedule already exists for this order")
		}

		//注文側の前提チェックとステータス前進
		if ro.Kind == model.OrderKindCustom {
			co := ro.CustomOrder
			if co.ApprovalStatus != model.ApprovalStatusApproved {
				return NewBusinessError(http.StatusConflict, CodeInvalidTransition, "custom order not approved")
			}
			if !model.CanTransitionDelivery(co.DeliveryStatus, model.DeliveryStatusScheduled) {
				return NewBusinessError(http.StatusConflict, CodeInvalidTransition,
					"cannot schedule delivery from "+string(co.DeliveryStatus))
			}
			//製作リードタイム明け前の配達日は、明示フラグが無い限り受けない
			ready := co.CreatedAt.AddDate(0, 0, u.leadDays)
			ready = time.Date(ready.Year(), ready.Month(), ready.Day(), 0, 0, 0, 0, time.UTC)
			if date.Before(ready) && !in.OverrideLeadTime {
				return NewBusinessError(http.StatusConflict, CodeInvalidTransition,
					"delivery date is before production lead time ends ("+ready.Format("2006-01-02")+"); set override_lead_time to schedule anyway")
			}
		} else {
			switch ro.Order.Status {
			case model.OrderStatusConfirmed, model.OrderStatusProcessing:
			default:
				return NewBusinessError(http.StatusConflict, CodeInvalidTransition,
					"cannot schedule delivery for order in "+string(ro.Order.Status))
			}
		}

		//配達員は任意。指定するならACTIVEであること
		if in.CourierID != nil {
			c, err := r.Couriers().FindByID(ctx, *in.CourierID)
			if err == repo.ErrNotFound {
				return NewBusinessError(http.StatusConflict, CodeCourierUnavailable, "courier not found")
			}
			if err != nil {
				return dbError(err)
			}
			if c.Status != model.CourierStatusActive {
				return NewBusinessError(http.StatusConflict, CodeCourierUnavailable, "courier is not active")
			}
		}

		now := time.Now()
		s := model.DeliverySchedule{
			OrderID:        ref.ID,
			OrderType:      ref.Kind,
			DeliveryStatus: model.DeliveryStatusScheduled,
			DeliveryDate:   date,
			TimeSlot:       strings.TrimSpace(in.TimeSlot),
			Address:        strings.TrimSpace(in.Address),
			CourierID:      in.CourierID,
			Notes:          in.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		id, err := r.Schedules().Create(ctx, s)
		if err != nil {
			return dbError(err)
		}
		s.ID = id

		//注文側のステータスを同じトランザクションで進める
		if ro.Kind == model.OrderKindCustom {
			if err := r.CustomOrders().UpdateDeliveryStatus(ctx, ro.CustomOrder.ID, model.DeliveryStatusScheduled); err != nil {
				return dbError(err)
			}
		} else if ro.Order.Status == model.OrderStatusConfirmed {
			if err := r.Orders().UpdateStatus(ctx, ro.Order.ID, model.OrderStatusProcessing); err != nil {
				return dbError(err)
			}
		}

		if err := writeAudit(ctx, r, adminID, model.AuditActionUpdateDeliveryStatus, model.AuditResourceSchedule, s.ID,
			map[string]any{},
			map[string]any{"delivery_status": s.DeliveryStatus, "order_id": ref.ID, "order_type": ref.Kind},
		); err != nil {
			return dbError(err)
		}

		out = toScheduleOutput(s)
		return nil
	})

	if err != nil {
		return ScheduleOutput{}, err
	}
	return out, nil
}

// スケジュールのステータス更新。遷移表で検証し、注文側へ波及させる。
// DELIVERED: 通常注文は明細ぶんの引当在庫を物理在庫から確定消費し、注文をDELIVEREDへ。
// IN_TRANSIT: 通常注文をSHIPPEDへ。
// CANCELED: カスタムの配送ステータスをPENDINGに戻す（再スケジュール可能にする）
func (u *DeliveryUsecase) UpdateStatus(ctx context.Context, adminID int64, scheduleID int64, status model.DeliveryStatus, notes string) (ScheduleOutput, error) {
	var out ScheduleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		out, err = u.updateStatusTx(ctx, r, adminID, scheduleID, status, notes)
		return err
	})

	if err != nil {
		return ScheduleOutput{}, err
	}
	return out, nil
}

// トランザクション内の本体。UpdateStatusByRefからも同じトランザクションで呼ぶ
func (u *DeliveryUsecase) updateStatusTx(ctx context.Context, r repo.TxRepos, adminID int64, scheduleID int64, status model.DeliveryStatus, notes string) (ScheduleOutput, error) {
	s, err := r.Schedules().FindByIDForUpdate(ctx, scheduleID)
	if err == repo.ErrNotFound {
		return ScheduleOutput{}, NewHTTPError(http.StatusNotFound, "schedule not found")
	}
	if err != nil {
		return ScheduleOutput{}, dbError(err)
	}

	if !model.CanTransitionDelivery(s.DeliveryStatus, status) {
		return ScheduleOutput{}, NewBusinessError(http.StatusConflict, CodeInvalidTransition,
			"cannot transition delivery from "+string(s.DeliveryStatus)+" to "+string(status))
	}

	if err := r.Schedules().UpdateStatus(ctx, s.ID, status, notes); err != nil {
		return ScheduleOutput{}, dbError(err)
	}

	if err := u.propagate(ctx, r, s, status); err != nil {
		return ScheduleOutput{}, err
	}

	if err := writeAudit(ctx, r, adminID, model.AuditActionUpdateDeliveryStatus, model.AuditResourceSchedule, s.ID,
		map[string]any{"delivery_status": s.DeliveryStatus},
		map[string]any{"delivery_status": status},
	); err != nil {
		return ScheduleOutput{}, dbError(err)
	}

	s.DeliveryStatus = status
	if notes != "" {
		s.Notes = notes
	}
	return toScheduleOutput(s), nil
}

// スケジュールの変化を注文側へ反映する
func (u *DeliveryUsecase) propagate(ctx context.Context, r repo.TxRepos, s model.DeliverySchedule, status model.DeliveryStatus) error {
	if s.OrderType == model.OrderKindCustom {
		return u.propagateCustom(ctx, r, s.OrderID, status)
	}
	return u.propagateRegular(ctx, r, s.OrderID, status)
}

func (u *DeliveryUsecase) propagateCustom(ctx context.Context, r repo.TxRepos, customOrderID int64, status model.DeliveryStatus) error {
	//スケジュールのCANCELEDは配送の取りやめであって注文のキャンセルではない。
	//再スケジュールできるようPENDINGへ戻す
	target := status
	if status == model.DeliveryStatusCanceled {
		target = model.DeliveryStatusPending
	}
	if err := r.CustomOrders().UpdateDeliveryStatus(ctx, customOrderID, target); err != nil {
		return dbError(err)
	}

	//配達完了なら決済シェル注文も完了へ
	if status == model.DeliveryStatusDelivered {
		shell, found, err := r.Orders().FindByLinkedCustomOrderID(ctx, customOrderID)
		if err != nil {
			return dbError(err)
		}
		if found && model.CanTransitionOrder(shell.Status, model.OrderStatusDelivered) {
			if err := r.Orders().UpdateStatus(ctx, shell.ID, model.OrderStatusDelivered); err != nil {
				return dbError(err)
			}
		}
	}
	return nil
}

func (u *DeliveryUsecase) propagateRegular(ctx context.Context, r repo.TxRepos, orderID int64, status model.DeliveryStatus) error {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
	}
	if err != nil {
		return dbError(err)
	}

	switch status {
	case model.DeliveryStatusInTransit:
		if model.CanTransitionOrder(o.Status, model.OrderStatusShipped) {
			if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusShipped); err != nil {
				return dbError(err)
			}
		}

	case model.DeliveryStatusDelivered:
		//引当在庫の確定消費。reservedとstock_quantityを同時に減らす
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return dbError(err)
		}
		for _, it := range items {
			if err := r.Inventory().Commit(ctx, it.ProductID, it.Size, it.Color, it.Quantity); err != nil {
				return dbError(err)
			}
		}
		if model.CanTransitionOrder(o.Status, model.OrderStatusDelivered) {
			if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusDelivered); err != nil {
				return dbError(err)
			}
		}
	}
	//CANCELED/DELAYEDは注文ステータスには波及させない
	return nil
}

// カスタムオーダーの公開ID経由での配送ステータス更新。
// アクティブなスケジュールがあればそちらを正として更新する。
// 無い場合、SCHEDULEDへの遷移はスケジュール作成APIを使わせる
func (u *DeliveryUsecase) UpdateStatusByRef(ctx context.Context, adminID int64, publicID string, status model.DeliveryStatus) (CustomOrderOutput, error) {
	var out CustomOrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		co, found, err := r.CustomOrders().FindByPublicID(ctx, strings.TrimSpace(publicID))
		if err != nil {
			return dbError(err)
		}
		if !found {
			return NewBusinessError(http.StatusNotFound, CodeOrderNotFound, "order not found")
		}

		s, exists, err := r.Schedules().FindActiveByRef(ctx, model.CustomOrderRef(co.ID))
		if err != nil {
			return dbError(err)
		}

		if exists {
			//スケジュールがある場合はスケジュール側を正として更新（波及でカスタム側も揃う）
			if _, err := u.updateStatusTx(ctx, r, adminID, s.ID, status, ""); err != nil {
				return err
			}
		} else {
			//スケジュール未作成。状態機械だけ進められるのはキャンセル系のみ
			if status == model.DeliveryStatusScheduled {
				return NewBusinessError(http.StatusConflict, CodeInvalidTransition,
					"create a delivery schedule to move to SCHEDULED")
			}
			if !model.CanTransitionDelivery(co.DeliveryStatus, status) {
				return NewBusinessError(http.StatusConflict, CodeInvalidTransition,
					"cannot transition delivery from "+string(co.DeliveryStatus)+" to "+string(status))
			}
			if err := r.CustomOrders().UpdateDeliveryStatus(ctx, co.ID, status); err != nil {
				return dbError(err)
			}
			if err := writeAudit(ctx, r, adminID, model.AuditActionUpdateDeliveryStatus, model.AuditResourceCustomOrder, co.ID,
				map[string]any{"delivery_status": co.DeliveryStatus},
				map[string]any{"delivery_status": status},
			); err != nil {
				return dbError(err)
			}
		}

		updated, err := r.CustomOrders().FindByID(ctx, co.ID)
		if err != nil {
			return dbError(err)
		}
		out = CustomOrderOutput{
			ID:                updated.ID,
			CustomOrderID:     updated.PublicID,
			UserID:            updated.UserID,
			DesignNotes:       updated.DesignNotes,
			Size:              updated.Size,
			Color:             updated.Color,
			ApprovalStatus:    string(updated.ApprovalStatus),
			DeliveryStatus:    string(updated.DeliveryStatus),
			EstimatedPrice:    updated.EstimatedPrice,
			FinalPrice:        updated.FinalPrice,
			PaymentVerifiedAt: updated.PaymentVerifiedAt,
			CreatedAt:         updated.CreatedAt,
		}
		return nil
	})

	if err != nil {
		return CustomOrderOutput{}, err
	}
	return out, nil
}

// 配達員の割り当て。ACTIVEな配達員のみ、終わったスケジュールには割り当てない
func (u *DeliveryUsecase) AssignCourier(ctx context.Context, adminID int64, scheduleID int64, courierID int64) (ScheduleOutput, error) {
	var out ScheduleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Schedules().FindByIDForUpdate(ctx, scheduleID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "schedule not found")
		}
		if err != nil {
			return dbError(err)
		}
		if !model.IsActiveDelivery(s.DeliveryStatus) {
			return NewBusinessError(http.StatusConflict, CodeInvalidTransition,
				"cannot assign courier to "+string(s.DeliveryStatus)+" schedule")
		}

		c, err := r.Couriers().FindByID(ctx, courierID)
		if err == repo.ErrNotFound {
			return NewBusinessError(http.StatusConflict, CodeCourierUnavailable, "courier not found")
		}
		if err != nil {
			return dbError(err)
		}
		if c.Status != model.CourierStatusActive {
			return NewBusinessError(http.StatusConflict, CodeCourierUnavailable, "courier is not active")
		}

		if err := r.Schedules().AssignCourier(ctx, s.ID, courierID); err != nil {
			return dbError(err)
		}

		if err := writeAudit(ctx, r, adminID, model.AuditActionUpdateDeliveryStatus, model.AuditResourceSchedule, s.ID,
			map[string]any{"courier_id": s.CourierID},
			map[string]any{"courier_id": courierID},
		); err != nil {
			return dbError(err)
		}

		s.CourierID = &courierID
		out = toScheduleOutput(s)
		return nil
	})

	if err != nil {
		return ScheduleOutput{}, err
	}
	return out, nil
}

func (u *DeliveryUsecase) ListActiveByCourier(ctx context.Context, courierID int64) ([]ScheduleOutput, error) {
	var outs []ScheduleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Couriers().FindByID(ctx, courierID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "courier not found")
			}
			return dbError(err)
		}
		list, err := r.Schedules().ListActiveByCourier(ctx, courierID)
		if err != nil {
			return dbError(err)
		}
		outs = make([]ScheduleOutput, 0, len(list))
		for _, s := range list {
			outs = append(outs, toScheduleOutput(s))
		}
		return nil
	})

	if err != nil {
		return []ScheduleOutput{}, err
	}
	return outs, nil
}

type CalendarEntry struct {
	ScheduleID     int64  `json:"schedule_id"`
	OrderID        int64  `json:"order_id"`
	OrderType      string `json:"order_type"`
	DeliveryStatus string `json:"delivery_status"`
	TimeSlot       string `json:"delivery_time_slot"`
	Address        string `json:"address"`
	CourierID      *int64 `json:"courier_id"`
	CourierName    string `json:"courier_name,omitempty"`
}

type CalendarDay struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Entries []CalendarEntry `json:"entries"`
}

type CalendarOutput struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}

// 月間カレンダー。半開区間 [月初, 翌月初) で絞る。
// 月末日のスケジュールが翌月に二重計上されないのはこの区間の取り方による
func (u *DeliveryUsecase) Calendar(ctx context.Context, year int, month int) (CalendarOutput, error) {
	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return CalendarOutput{}, NewHTTPError(http.StatusBadRequest, "invalid year or month")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	out := CalendarOutput{Year: year, Month: month, Days: []CalendarDay{}}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		list, err := r.Schedules().ListByDateRange(ctx, from, to)
		if err != nil {
			return dbError(err)
		}

		//配達員名の解決（重複呼び出しはキャッシュ）
		courierNames := map[int64]string{}
		courierName := func(id int64) (string, error) {
			if name, ok := courierNames[id]; ok {
				return name, nil
			}
			c, err := r.Couriers().FindByID(ctx, id)
			if err == repo.ErrNotFound {
				courierNames[id] = ""
				return "", nil
			}
			if err != nil {
				return "", dbError(err)
			}
			courierNames[id] = c.Name
			return c.Name, nil
		}

		byDay := map[string][]CalendarEntry{}
		for _, s := range list {
			e := CalendarEntry{
				ScheduleID:     s.ID,
				OrderID:        s.OrderID,
				OrderType:      string(s.OrderType),
				DeliveryStatus: string(s.DeliveryStatus),
				TimeSlot:       s.TimeSlot,
				Address:        s.Address,
				CourierID:      s.CourierID,
			}
			if s.CourierID != nil {
				name, err := courierName(*s.CourierID)
				if err != nil {
					return err
				}
				e.CourierName = name
			}
			day := s.DeliveryDate.Format("2006-01-02")
			byDay[day] = append(byDay[day], e)
		}

		//日付順に並べる
		lastDay := to.AddDate(0, 0, -1).Day()
		for d := 1; d <= lastDay; d++ {
			key := fmt.Sprintf("%04d-%02d-%02d", year, month, d)
			if entries, ok := byDay[key]; ok {
				out.Days = append(out.Days, CalendarDay{Date: key, Entries: entries})
			}
		}
		return nil
	})

	if err != nil {
		return CalendarOutput{}, err
	}
	return out, nil
}
