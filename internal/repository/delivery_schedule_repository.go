package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type DeliveryScheduleRepository interface {
	FindByID(ctx context.Context, id int64) (model.DeliverySchedule, error)
	//行ロック付き取得（ステータス更新の読み書き用）
	FindByIDForUpdate(ctx context.Context, id int64) (model.DeliverySchedule, error)

	//キャンセル済み以外で (order_id, order_type) に一致する1件。重複防止の事前チェック用
	FindActiveByRef(ctx context.Context, ref model.OrderRef) (model.DeliverySchedule, bool, error)

	Create(ctx context.Context, s model.DeliverySchedule) (int64, error)
	Update(ctx context.Context, s model.DeliverySchedule) error
	UpdateStatus(ctx context.Context, id int64, status model.DeliveryStatus, notes string) error
	AssignCourier(ctx context.Context, id int64, courierID int64) error

	//IsActiveDeliveryの集合で絞る（唯一の「配達中」定義）
	ListActiveByCourier(ctx context.Context, courierID int64) ([]model.DeliverySchedule, error)
	CountActiveByCourier(ctx context.Context, courierID int64) (int64, error)

	//半開区間 [from, to) で配送日を絞る
	ListByDateRange(ctx context.Context, from time.Time, to time.Time) ([]model.DeliverySchedule, error)
}
