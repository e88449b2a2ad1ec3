package model

import "time"

// 承認ステータス（製作を受けるかどうか）。
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
	ApprovalStatusCanceled ApprovalStatus = "CANCELED"
)

// 配送ステータス。承認とは独立した状態機械。
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "PENDING"
	DeliveryStatusScheduled DeliveryStatus = "SCHEDULED"
	DeliveryStatusInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryStatusDelivered DeliveryStatus = "DELIVERED"
	DeliveryStatusDelayed   DeliveryStatus = "DELAYED"
	DeliveryStatusCanceled  DeliveryStatus = "CANCELED"
)

// 受注生産のカスタムオーダー。
// approval_status と delivery_status は同一エンティティ上の別の状態機械。
// 公開IDは CUSTOM-XXXX-XXXX-XXXX 形式で、製作・配送系APIは必ずこちらを使う。
type CustomOrder struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PublicID string `gorm:"type:varchar(40);not null;uniqueIndex" json:"custom_order_id"`
	UserID   int64  `gorm:"not null;index" json:"user_id"`

	DesignNotes string `gorm:"type:text" json:"design_notes"`
	Size        string `gorm:"type:varchar(20)" json:"size"`
	Color       string `gorm:"type:varchar(50)" json:"color"`

	ApprovalStatus ApprovalStatus `gorm:"type:varchar(20);not null;index" json:"approval_status"`
	DeliveryStatus DeliveryStatus `gorm:"type:varchar(20);not null;index" json:"delivery_status"`

	EstimatedPrice int64  `gorm:"not null" json:"estimated_price"`
	FinalPrice     *int64 `json:"final_price"`

	//管理者が振込証憑を確認した時刻
	PaymentVerifiedAt *time.Time `json:"payment_verified_at"`

	//製作リードタイムの起点
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
