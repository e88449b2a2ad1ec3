package model

import "time"

// 配送スケジュールが指す注文の種別。
type OrderKind string

const (
	OrderKindRegular OrderKind = "regular"
	OrderKindCustom  OrderKind = "custom_order"
)

// (kind, id) をひとつの値で扱うための参照型。
// 不正な組み合わせをアプリ層で作れないように、必ずコンストラクタを使う。
type OrderRef struct {
	Kind OrderKind `json:"kind"`
	ID   int64     `json:"id"`
}

func RegularOrderRef(id int64) OrderRef {
	return OrderRef{Kind: OrderKindRegular, ID: id}
}

func CustomOrderRef(id int64) OrderRef {
	return OrderRef{Kind: OrderKindCustom, ID: id}
}

// 配送スケジュール。
// キャンセル済み以外は (order_id, order_type) につき1件だけ（アプリ層で保証）。
type DeliverySchedule struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index:idx_schedule_order" json:"order_id"`
	OrderType OrderKind `gorm:"type:varchar(20);not null;index:idx_schedule_order" json:"order_type"`

	DeliveryStatus DeliveryStatus `gorm:"type:varchar(20);not null;index" json:"delivery_status"`
	DeliveryDate   time.Time      `gorm:"not null;index" json:"delivery_date"`
	TimeSlot       string         `gorm:"type:varchar(20);not null" json:"delivery_time_slot"`
	Address        string         `gorm:"type:text;not null" json:"address"`

	CourierID *int64 `gorm:"index" json:"courier_id"`

	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (s DeliverySchedule) Ref() OrderRef {
	return OrderRef{Kind: s.OrderType, ID: s.OrderID}
}
