package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartItemOutput struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

type CartOutput struct {
	CartID     int64            `json:"cart_id"`
	Items      []CartItemOutput `json:"items"`
	TotalPrice int64            `json:"total_price"`
}

type AddCartItemInput struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity"`
}

func buildCartOutput(cartID int64, items []model.CartItem) CartOutput {
	out := CartOutput{CartID: cartID, Items: make([]CartItemOutput, 0, len(items))}
	for _, it := range items {
		sub := it.UnitPriceSnapshot * it.Quantity
		out.Items = append(out.Items, CartItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Size:      it.Size,
			Color:     it.Color,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPriceSnapshot,
			Subtotal:  sub,
		})
		out.TotalPrice += sub
	}
	return out
}

func (u *CartUsecase) GetMyCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return dbError(err)
		}
		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return dbError(err)
		}
		out = buildCartOutput(cart.ID, items)
		return nil
	})

	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// バリアント単位で追加。同じバリアントは数量加算。
// 価格は追加時点の商品価格をスナップショットする
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartItemInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	size := strings.TrimSpace(in.Size)
	color := strings.TrimSpace(in.Color)
	if in.ProductID <= 0 || in.Quantity < 1 || size == "" || color == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid item")
	}

	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		if err != nil {
			return dbError(err)
		}
		if !p.IsActive {
			return NewHTTPError(http.StatusBadRequest, "invalid product")
		}

		//バリアントが存在するか（在庫の引当はしない。引当は注文確定時）
		if _, err := r.Variants().FindByKey(ctx, in.ProductID, size, color); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "invalid variant")
			}
			return dbError(err)
		}

		cart, err := r.Carts().GetOrCreateActiveByUserID(ctx, userID)
		if err != nil {
			return dbError(err)
		}

		if err := r.CartItems().UpsertByCartAndVariant(ctx, cart.ID, in.ProductID, size, color, in.Quantity, p.Price); err != nil {
			return dbError(err)
		}

		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return dbError(err)
		}
		out = buildCartOutput(cart.ID, items)
		return nil
	})

	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// 数量変更。0は削除と同じ
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) (CartOutput, error) {
	if qty < 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		owned, err := r.CartItems().IsOwnedByUser(ctx, cartItemID, userID)
		if err != nil {
			return dbError(err)
		}
		if !owned {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}

		if qty == 0 {
			if err := r.CartItems().DeleteByID(ctx, cartItemID); err != nil {
				return dbError(err)
			}
		} else {
			if err := r.CartItems().UpdateQuantity(ctx, cartItemID, qty); err != nil {
				return dbError(err)
			}
		}

		cart, err := r.Carts().FindActiveByUserID(ctx, userID)
		if err != nil {
			return dbError(err)
		}
		items, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return dbError(err)
		}
		out = buildCartOutput(cart.ID, items)
		return nil
	})

	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) (CartOutput, error) {
	return u.UpdateItemQuantity(ctx, userID, cartItemID, 0)
}
