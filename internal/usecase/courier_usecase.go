package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CourierUsecase struct {
	tx repo.TransactionManager
}

func NewCourierUsecase(tx repo.TransactionManager) *CourierUsecase {
	return &CourierUsecase{tx: tx}
}

type CourierInput struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	VehicleType string `json:"vehicle_type"`
	Status      string `json:"status"`
}

func (u *CourierUsecase) List(ctx context.Context) ([]model.Courier, error) {
	var list []model.Courier

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		list, err = r.Couriers().List(ctx)
		if err != nil {
			return dbError(err)
		}
		return nil
	})

	if err != nil {
		return []model.Courier{}, err
	}
	return list, nil
}

func (u *CourierUsecase) Create(ctx context.Context, in CourierInput) (model.Courier, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return model.Courier{}, NewHTTPError(http.StatusBadRequest, "name and phone required")
	}
	status := model.CourierStatus(in.Status)
	if status == "" {
		status = model.CourierStatusActive
	}
	if status != model.CourierStatusActive && status != model.CourierStatusInactive {
		return model.Courier{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out model.Courier

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := r.Couriers().Create(ctx, model.Courier{
			Name:        strings.TrimSpace(in.Name),
			Phone:       strings.TrimSpace(in.Phone),
			VehicleType: strings.TrimSpace(in.VehicleType),
			Status:      status,
		})
		if err != nil {
			return dbError(err)
		}
		out = created
		return nil
	})

	if err != nil {
		return model.Courier{}, err
	}
	return out, nil
}

func (u *CourierUsecase) Update(ctx context.Context, courierID int64, in CourierInput) (model.Courier, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return model.Courier{}, NewHTTPError(http.StatusBadRequest, "name and phone required")
	}
	status := model.CourierStatus(in.Status)
	if status != model.CourierStatusActive && status != model.CourierStatusInactive {
		return model.Courier{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out model.Courier

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Couriers().FindByID(ctx, courierID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "courier not found")
		}
		if err != nil {
			return dbError(err)
		}

		c.Name = strings.TrimSpace(in.Name)
		c.Phone = strings.TrimSpace(in.Phone)
		c.VehicleType = strings.TrimSpace(in.VehicleType)
		c.Status = status

		if err := r.Couriers().Update(ctx, c); err != nil {
			return dbError(err)
		}
		out = c
		return nil
	})

	if err != nil {
		return model.Courier{}, err
	}
	return out, nil
}

// 削除。配達中の案件を持つ配達員は消せない
func (u *CourierUsecase) Delete(ctx context.Context, courierID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Couriers().FindByID(ctx, courierID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "courier not found")
			}
			return dbError(err)
		}

		active, err := r.Schedules().CountActiveByCourier(ctx, courierID)
		if err != nil {
			return dbError(err)
		}
		if active > 0 {
			return NewBusinessError(http.StatusConflict, CodeCourierHasActiveDeliveries,
				"courier has active deliveries")
		}

		if err := r.Couriers().Delete(ctx, courierID); err != nil {
			return dbError(err)
		}
		return nil
	})
}
