package model

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// キャンセル申請。OrderID か CustomOrderID のどちらか片方だけ埋める。
// 承認で注文をCANCELEDにして引当在庫を戻す。承認・却下は終端。
type CancellationRequest struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       *int64        `gorm:"index" json:"order_id"`
	CustomOrderID *int64        `gorm:"index" json:"custom_order_id"`
	UserID        int64         `gorm:"not null;index" json:"user_id"`
	Reason        string        `gorm:"type:text;not null" json:"reason"`
	Status        RequestStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	AdminNotes    string        `gorm:"type:text" json:"admin_notes"`
	ResolvedAt    *time.Time    `json:"resolved_at"`
	CreatedAt     time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 返金申請。配送完了後のみ。在庫には触らない。
type RefundRequest struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       *int64        `gorm:"index" json:"order_id"`
	CustomOrderID *int64        `gorm:"index" json:"custom_order_id"`
	UserID        int64         `gorm:"not null;index" json:"user_id"`
	Reason        string        `gorm:"type:text;not null" json:"reason"`
	Status        RequestStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	AdminNotes    string        `gorm:"type:text" json:"admin_notes"`
	ResolvedAt    *time.Time    `json:"resolved_at"`
	CreatedAt     time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
