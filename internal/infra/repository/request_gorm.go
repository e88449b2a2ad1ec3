package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// (order_id / custom_order_id) の条件をrefから組み立てる
func refCondition(q *gorm.DB, ref model.OrderRef) *gorm.DB {
	if ref.Kind == model.OrderKindCustom {
		return q.Where("custom_order_id = ?", ref.ID)
	}
	return q.Where("order_id = ?", ref.ID)
}

type CancellationRequestGormRepository struct {
	db *gorm.DB
}

func NewCancellationRequestGormRepository(db *gorm.DB) *CancellationRequestGormRepository {
	return &CancellationRequestGormRepository{db: db}
}

func (r *CancellationRequestGormRepository) FindByID(ctx context.Context, id int64) (model.CancellationRequest, error) {
	var req model.CancellationRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CancellationRequest{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CancellationRequest{}, err
	}
	return req, nil
}

// 承認・却下の二重実行防止のため行ロックで取る
func (r *CancellationRequestGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.CancellationRequest, error) {
	var req model.CancellationRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CancellationRequest{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CancellationRequest{}, err
	}
	return req, nil
}

func (r *CancellationRequestGormRepository) ExistsPendingForRef(ctx context.Context, ref model.OrderRef) (bool, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.CancellationRequest{}).
		Where("status = ?", model.RequestStatusPending)
	q = refCondition(q, ref)
	if err := q.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *CancellationRequestGormRepository) ListPending(ctx context.Context, page int, limit int) ([]model.CancellationRequest, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.CancellationRequest{}).
		Where("status = ?", model.RequestStatusPending)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.CancellationRequest{}, 0, err
	}

	var items []model.CancellationRequest
	if err := q.Order("id asc").Limit(limit).Offset((page - 1) * limit).Find(&items).Error; err != nil {
		return []model.CancellationRequest{}, 0, err
	}
	return items, total, nil
}

func (r *CancellationRequestGormRepository) Create(ctx context.Context, req model.CancellationRequest) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&req).Error; err != nil {
		return 0, err
	}
	return req.ID, nil
}

func (r *CancellationRequestGormRepository) Resolve(ctx context.Context, id int64, status model.RequestStatus, adminNotes string) error {
	res := r.db.WithContext(ctx).Model(&model.CancellationRequest{}).
		Where("id = ? AND status = ?", id, model.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": adminNotes,
			"resolved_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	//PENDING以外はもう終端
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type RefundRequestGormRepository struct {
	db *gorm.DB
}

func NewRefundRequestGormRepository(db *gorm.DB) *RefundRequestGormRepository {
	return &RefundRequestGormRepository{db: db}
}

func (r *RefundRequestGormRepository) FindByID(ctx context.Context, id int64) (model.RefundRequest, error) {
	var req model.RefundRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RefundRequest{}, repo.ErrNotFound
	}
	if err != nil {
		return model.RefundRequest{}, err
	}
	return req, nil
}

func (r *RefundRequestGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.RefundRequest, error) {
	var req model.RefundRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RefundRequest{}, repo.ErrNotFound
	}
	if err != nil {
		return model.RefundRequest{}, err
	}
	return req, nil
}

func (r *RefundRequestGormRepository) ExistsPendingForRef(ctx context.Context, ref model.OrderRef) (bool, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.RefundRequest{}).
		Where("status = ?", model.RequestStatusPending)
	q = refCondition(q, ref)
	if err := q.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *RefundRequestGormRepository) ListPending(ctx context.Context, page int, limit int) ([]model.RefundRequest, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.RefundRequest{}).
		Where("status = ?", model.RequestStatusPending)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.RefundRequest{}, 0, err
	}

	var items []model.RefundRequest
	if err := q.Order("id asc").Limit(limit).Offset((page - 1) * limit).Find(&items).Error; err != nil {
		return []model.RefundRequest{}, 0, err
	}
	return items, total, nil
}

func (r *RefundRequestGormRepository) Create(ctx context.Context, req model.RefundRequest) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&req).Error; err != nil {
		return 0, err
	}
	return req.ID, nil
}

func (r *RefundRequestGormRepository) Resolve(ctx context.Context, id int64, status model.RequestStatus, adminNotes string) error {
	res := r.db.WithContext(ctx).Model(&model.RefundRequest{}).
		Where("id = ? AND status = ?", id, model.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": adminNotes,
			"resolved_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
