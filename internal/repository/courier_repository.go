package repository

import (
	"context"

	"app/internal/domain/model"
)

type CourierRepository interface {
	FindByID(ctx context.Context, id int64) (model.Courier, error)
	List(ctx context.Context) ([]model.Courier, error)
	Create(ctx context.Context, c model.Courier) (model.Courier, error)
	Update(ctx context.Context, c model.Courier) error
	Delete(ctx context.Context, id int64) error
}
