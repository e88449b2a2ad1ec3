package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProductUsecase struct {
	tx repo.TransactionManager
}

func NewProductUsecase(tx repo.TransactionManager) *ProductUsecase {
	return &ProductUsecase{tx: tx}
}

type VariantOutput struct {
	ID                int64  `json:"id"`
	Size              string `json:"size"`
	Color             string `json:"color"`
	AvailableQuantity int64  `json:"available_quantity"`
	StockStatus       string `json:"stock_status"`
}

// 管理者向け。物理在庫と引当数まで見せる
type AdminVariantOutput struct {
	ID                int64  `json:"id"`
	ProductID         int64  `json:"product_id"`
	Size              string `json:"size"`
	Color             string `json:"color"`
	StockQuantity     int64  `json:"stock_quantity"`
	AvailableQuantity int64  `json:"available_quantity"`
	ReservedQuantity  int64  `json:"reserved_quantity"`
	StockStatus       string `json:"stock_status"`
}

type ProductOutput struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       int64           `json:"price"`
	IsActive    bool            `json:"is_active"`
	Variants    []VariantOutput `json:"variants,omitempty"`
}

type ProductListInput struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		IsActive:    p.IsActive,
	}
}

func toAdminVariantOutput(v model.ProductVariant) AdminVariantOutput {
	return AdminVariantOutput{
		ID:                v.ID,
		ProductID:         v.ProductID,
		Size:              v.Size,
		Color:             v.Color,
		StockQuantity:     v.StockQuantity,
		AvailableQuantity: v.AvailableQuantity,
		ReservedQuantity:  v.ReservedQuantity,
		StockStatus:       string(v.StockStatus),
	}
}

func (u *ProductUsecase) ListPublic(ctx context.Context, in ProductListInput) ([]ProductOutput, int64, error) {
	var outs []ProductOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		list, n, err := r.Products().ListPublic(ctx, repo.ProductListQuery{
			Page:     in.Page,
			Limit:    in.Limit,
			Q:        in.Q,
			MinPrice: in.MinPrice,
			MaxPrice: in.MaxPrice,
			Sort:     in.Sort,
		})
		if err != nil {
			return dbError(err)
		}
		total = n
		outs = make([]ProductOutput, 0, len(list))
		for _, p := range list {
			outs = append(outs, toProductOutput(p))
		}
		return nil
	})

	if err != nil {
		return []ProductOutput{}, 0, err
	}
	return outs, total, nil
}

// 公開詳細。非公開・削除済みは存在しない扱い
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductOutput, error) {
	var out ProductOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return dbError(err)
		}
		if !p.IsActive {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}

		variants, err := r.Variants().ListByProductID(ctx, p.ID)
		if err != nil {
			return dbError(err)
		}

		out = toProductOutput(p)
		out.Variants = make([]VariantOutput, 0, len(variants))
		for _, v := range variants {
			out.Variants = append(out.Variants, VariantOutput{
				ID:                v.ID,
				Size:              v.Size,
				Color:             v.Color,
				AvailableQuantity: v.AvailableQuantity,
				StockStatus:       string(v.StockStatus),
			})
		}
		return nil
	})

	if err != nil {
		return ProductOutput{}, err
	}
	return out, nil
}

type AdminProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	IsActive    bool   `json:"is_active"`
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, in AdminProductInput) (ProductOutput, error) {
	if strings.TrimSpace(in.Name) == "" || in.Price < 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}

	var out ProductOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := r.Products().Create(ctx, model.Product{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Price:       in.Price,
			IsActive:    in.IsActive,
		})
		if err != nil {
			return dbError(err)
		}
		out = toProductOutput(created)
		return nil
	})

	if err != nil {
		return ProductOutput{}, err
	}
	return out, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, productID int64, in AdminProductInput) (ProductOutput, error) {
	if strings.TrimSpace(in.Name) == "" || in.Price < 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}

	var out ProductOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return dbError(err)
		}

		p.Name = strings.TrimSpace(in.Name)
		p.Description = in.Description
		p.Price = in.Price
		p.IsActive = in.IsActive

		if err := r.Products().Update(ctx, p); err != nil {
			return dbError(err)
		}
		out = toProductOutput(p)
		return nil
	})

	if err != nil {
		return ProductOutput{}, err
	}
	return out, nil
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, productID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Products().SoftDelete(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return dbError(err)
		}
		return nil
	})
}

type AdminCreateVariantInput struct {
	Size          string `json:"size"`
	Color         string `json:"color"`
	StockQuantity int64  `json:"stock_quantity"`
}

func (u *ProductUsecase) AdminCreateVariant(ctx context.Context, productID int64, in AdminCreateVariantInput) (AdminVariantOutput, error) {
	size := strings.TrimSpace(in.Size)
	color := strings.TrimSpace(in.Color)
	if size == "" || color == "" || in.StockQuantity < 0 {
		return AdminVariantOutput{}, NewHTTPError(http.StatusBadRequest, "invalid variant")
	}

	var out AdminVariantOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			return dbError(err)
		}

		if _, err := r.Variants().FindByKey(ctx, productID, size, color); err == nil {
			return NewHTTPError(http.StatusConflict, "variant already exists")
		} else if err != repo.ErrNotFound {
			return dbError(err)
		}

		created, err := r.Variants().Create(ctx, model.ProductVariant{
			ProductID:         productID,
			Size:              size,
			Color:             color,
			StockQuantity:     in.StockQuantity,
			AvailableQuantity: in.StockQuantity,
		})
		if err != nil {
			return dbError(err)
		}
		out = toAdminVariantOutput(created)
		return nil
	})

	if err != nil {
		return AdminVariantOutput{}, err
	}
	return out, nil
}

type SetVariantStockInput struct {
	StockQuantity int64  `json:"stock_quantity"`
	Reason        string `json:"reason"`
}

// 物理在庫の手動設定。差分を調整履歴に残し、監査ログも書く。
// 引当済みを下回る設定は拒否する
func (u *ProductUsecase) AdminSetVariantStock(ctx context.Context, adminID int64, variantID int64, in SetVariantStockInput) (AdminVariantOutput, error) {
	if in.StockQuantity < 0 {
		return AdminVariantOutput{}, NewHTTPError(http.StatusBadRequest, "invalid stock_quantity")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "manual adjustment"
	}

	var out AdminVariantOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Variants().FindByID(ctx, variantID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "variant not found")
		}
		if err != nil {
			return dbError(err)
		}

		after, err := r.Inventory().SetStock(ctx, variantID, in.StockQuantity)
		if err == repo.ErrStockBelowReserved {
			return NewBusinessError(http.StatusConflict, CodeInsufficientStock,
				"stock_quantity cannot go below reserved quantity")
		}
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "variant not found")
		}
		if err != nil {
			return dbError(err)
		}

		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			VariantID:   variantID,
			AdminUserID: adminID,
			Delta:       in.StockQuantity - before.StockQuantity,
			Reason:      reason,
		}); err != nil {
			return dbError(err)
		}

		if err := writeAudit(ctx, r, adminID, model.AuditActionUpdateStock, model.AuditResourceVariant, variantID,
			map[string]any{"stock_quantity": before.StockQuantity, "available_quantity": before.AvailableQuantity},
			map[string]any{"stock_quantity": after.StockQuantity, "available_quantity": after.AvailableQuantity},
		); err != nil {
			return dbError(err)
		}

		out = toAdminVariantOutput(after)
		return nil
	})

	if err != nil {
		return AdminVariantOutput{}, err
	}
	return out, nil
}

func (u *ProductUsecase) AdminListVariants(ctx context.Context, productID int64) ([]AdminVariantOutput, error) {
	var outs []AdminVariantOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			return dbError(err)
		}
		list, err := r.Variants().ListByProductID(ctx, productID)
		if err != nil {
			return dbError(err)
		}
		outs = make([]AdminVariantOutput, 0, len(list))
		for _, v := range list {
			outs = append(outs, toAdminVariantOutput(v))
		}
		return nil
	})

	if err != nil {
		return []AdminVariantOutput{}, err
	}
	return outs, nil
}
