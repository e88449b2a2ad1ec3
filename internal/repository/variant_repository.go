package repository

import (
	"app/internal/domain/model"
	"context"
)

// バリアントの取得・作成。カウンタの増減はInventoryRepositoryに任せる。
type VariantRepository interface {
	FindByID(ctx context.Context, id int64) (model.ProductVariant, error)
	FindByKey(ctx context.Context, productID int64, size string, color string) (model.ProductVariant, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductVariant, error)
	Create(ctx context.Context, v model.ProductVariant) (model.ProductVariant, error)
}
