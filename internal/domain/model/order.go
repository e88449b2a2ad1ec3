package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCanceled   OrderStatus = "CANCELED"
)

// 通常注文（チェックアウト経由）。
// カスタムオーダー購入の決済用シェルの場合は LinkedCustomOrderID を必ず埋める。
// Notesの「Reference: CUSTOM-...」はFK導入前の旧データ用。新規では書かない。
type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string      `gorm:"type:varchar(40);not null;uniqueIndex" json:"order_number"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalPrice  int64       `gorm:"not null" json:"total_price"`

	//配送先スナップショット
	ShippingName    string `gorm:"type:varchar(255);not null" json:"shipping_name"`
	ShippingPhone   string `gorm:"type:varchar(30)" json:"shipping_phone"`
	ShippingAddress string `gorm:"type:text;not null" json:"shipping_address"`

	Notes string `gorm:"type:text" json:"notes"`

	//カスタムオーダー購入のシェルなら対象のcustom_orders.id
	LinkedCustomOrderID *int64 `gorm:"index" json:"linked_custom_order_id"`

	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
