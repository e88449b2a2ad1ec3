package repository

import (
	"context"

	"app/internal/domain/model"
)

// キャンセル申請の永続化。
type CancellationRequestRepository interface {
	FindByID(ctx context.Context, id int64) (model.CancellationRequest, error)
	//行ロック付き取得（承認・却下の二重実行防止）
	FindByIDForUpdate(ctx context.Context, id int64) (model.CancellationRequest, error)
	//対象注文にPENDINGの申請があるか
	ExistsPendingForRef(ctx context.Context, ref model.OrderRef) (bool, error)
	ListPending(ctx context.Context, page int, limit int) ([]model.CancellationRequest, int64, error)
	Create(ctx context.Context, req model.CancellationRequest) (int64, error)
	Resolve(ctx context.Context, id int64, status model.RequestStatus, adminNotes string) error
}

// 返金申請。形はキャンセル申請と同じ。
type RefundRequestRepository interface {
	FindByID(ctx context.Context, id int64) (model.RefundRequest, error)
	FindByIDForUpdate(ctx context.Context, id int64) (model.RefundRequest, error)
	ExistsPendingForRef(ctx context.Context, ref model.OrderRef) (bool, error)
	ListPending(ctx context.Context, page int, limit int) ([]model.RefundRequest, int64, error)
	Create(ctx context.Context, req model.RefundRequest) (int64, error)
	Resolve(ctx context.Context, id int64, status model.RequestStatus, adminNotes string) error
}
