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

type DeliveryScheduleGormRepository struct {
	db *gorm.DB
}

func NewDeliveryScheduleGormRepository(db *gorm.DB) *DeliveryScheduleGormRepository {
	return &DeliveryScheduleGormRepository{db: db}
}

func (r *DeliveryScheduleGormRepository) FindByID(ctx context.Context, id int64) (model.DeliverySchedule, error) {
	var s model.DeliverySchedule
	err := r.db.WithContext(ctx).First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliverySchedule{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DeliverySchedule{}, err
	}
	return s, nil
}

func (r *DeliveryScheduleGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.DeliverySchedule, error) {
	var s model.DeliverySchedule
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliverySchedule{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DeliverySchedule{}, err
	}
	return s, nil
}

// キャンセル済み以外で同じ注文を指すスケジュール。重複防止の事前チェックは
// 作成と同じトランザクションでここを呼ぶ（行ロックで同時作成を直列化する）。
func (r *DeliveryScheduleGormRepository) FindActiveByRef(ctx context.Context, ref model.OrderRef) (model.DeliverySchedule, bool, error) {
	var s model.DeliverySchedule
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ? AND order_type = ? AND delivery_status <> ?",
			ref.ID, ref.Kind, model.DeliveryStatusCanceled).
		Order("id desc").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DeliverySchedule{}, false, nil
	}
	if err != nil {
		return model.DeliverySchedule{}, false, err
	}
	return s, true, nil
}

func (r *DeliveryScheduleGormRepository) Create(ctx context.Context, s model.DeliverySchedule) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return 0, err
	}
	return s.ID, nil
}

func (r *DeliveryScheduleGormRepository) Update(ctx context.Context, s model.DeliverySchedule) error {
	res := r.db.WithContext(ctx).Model(&model.DeliverySchedule{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"delivery_date": s.DeliveryDate,
			"time_slot":     s.TimeSlot,
			"address":       s.Address,
			"notes":         s.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeliveryScheduleGormRepository) UpdateStatus(ctx context.Context, id int64, status model.DeliveryStatus, notes string) error {
	values := map[string]interface{}{"delivery_status": status}
	if notes != "" {
		values["notes"] = notes
	}

	res := r.db.WithContext(ctx).Model(&model.DeliverySchedule{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeliveryScheduleGormRepository) AssignCourier(ctx context.Context, id int64, courierID int64) error {
	res := r.db.WithContext(ctx).Model(&model.DeliverySchedule{}).
		Where("id = ?", id).
		Update("courier_id", courierID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeliveryScheduleGormRepository) ListActiveByCourier(ctx context.Context, courierID int64) ([]model.DeliverySchedule, error) {
	var items []model.DeliverySchedule
	err := r.db.WithContext(ctx).
		Where("courier_id = ? AND delivery_status IN ?", courierID, model.ActiveDeliveryStatuses()).
		Order("delivery_date asc").
		Find(&items).Error
	if err != nil {
		return []model.DeliverySchedule{}, err
	}
	return items, nil
}

func (r *DeliveryScheduleGormRepository) CountActiveByCourier(ctx context.Context, courierID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.DeliverySchedule{}).
		Where("courier_id = ? AND delivery_status IN ?", courierID, model.ActiveDeliveryStatuses()).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// 半開区間 [from, to)。月末・タイムゾーン境界のオフバイワンを避ける
func (r *DeliveryScheduleGormRepository) ListByDateRange(ctx context.Context, from time.Time, to time.Time) ([]model.DeliverySchedule, error) {
	var items []model.DeliverySchedule
	err := r.db.WithContext(ctx).
		Where("delivery_date >= ? AND delivery_date < ?", from, to).
		Order("delivery_date asc").Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.DeliverySchedule{}, err
	}
	return items, nil
}
