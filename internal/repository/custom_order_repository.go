package repository

import (
	"context"

	"app/internal/domain/model"
)

type CustomOrderListFilter struct {
	Page           int
	Limit          int
	ApprovalStatus string
	DeliveryStatus string
	UserID         *int64
}

type CustomOrderRepository interface {
	FindByID(ctx context.Context, id int64) (model.CustomOrder, error)
	//FOR UPDATE付き。カスタムオーダー行を直列化の起点にしたいとき使う
	FindByIDForUpdate(ctx context.Context, id int64) (model.CustomOrder, error)
	//公開ID（CUSTOM-...）で引く
	FindByPublicID(ctx context.Context, publicID string) (model.CustomOrder, bool, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.CustomOrder, int64, error)
	ListAdmin(ctx context.Context, f CustomOrderListFilter) ([]model.CustomOrder, int64, error)
	Create(ctx context.Context, co model.CustomOrder) (int64, error)

	UpdateApprovalStatus(ctx context.Context, id int64, status model.ApprovalStatus) error
	UpdateDeliveryStatus(ctx context.Context, id int64, status model.DeliveryStatus) error
	//証憑確認。final_priceは未設定のときだけ埋める
	MarkPaymentVerified(ctx context.Context, id int64, finalPrice int64) error
}
