package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartUsecase_AddItem_SnapshotsPrice(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCartUsecase(tm)

	repos.products.On("FindByID", mock.Anything, int64(2)).
		Return(model.Product{ID: 2, Name: "Linen Shirt", Price: 4800, IsActive: true}, nil)
	repos.variants.On("FindByKey", mock.Anything, int64(2), "M", "black").
		Return(model.ProductVariant{ID: 20}, nil)
	repos.carts.On("GetOrCreateActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 30, UserID: 5, Status: model.CartStatusActive}, nil)
	repos.cartItems.On("UpsertByCartAndVariant", mock.Anything, int64(30), int64(2), "M", "black", int64(2), int64(4800)).
		Return(nil)
	repos.cartItems.On("ListByCartID", mock.Anything, int64(30)).
		Return([]model.CartItem{
			{ID: 60, ProductID: 2, Size: "M", Color: "black", Quantity: 2, UnitPriceSnapshot: 4800},
		}, nil)

	out, err := uc.AddItem(context.Background(), 5, AddCartItemInput{
		ProductID: 2, Size: "M", Color: "black", Quantity: 2,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(9600), out.TotalPrice)
	assert.Equal(t, int64(4800), out.Items[0].UnitPrice)
	//カート追加では在庫を引き当てない
	repos.inventory.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddItem_UnknownVariant(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCartUsecase(tm)

	repos.products.On("FindByID", mock.Anything, int64(2)).
		Return(model.Product{ID: 2, Price: 4800, IsActive: true}, nil)
	repos.variants.On("FindByKey", mock.Anything, int64(2), "XXL", "black").
		Return(model.ProductVariant{}, repo.ErrNotFound)

	_, err := uc.AddItem(context.Background(), 5, AddCartItemInput{
		ProductID: 2, Size: "XXL", Color: "black", Quantity: 1,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestCartUsecase_UpdateItemQuantity_ZeroDeletes(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCartUsecase(tm)

	repos.cartItems.On("IsOwnedByUser", mock.Anything, int64(60), int64(5)).Return(true, nil)
	repos.cartItems.On("DeleteByID", mock.Anything, int64(60)).Return(nil)
	repos.carts.On("FindActiveByUserID", mock.Anything, int64(5)).
		Return(model.Cart{ID: 30}, nil)
	repos.cartItems.On("ListByCartID", mock.Anything, int64(30)).
		Return([]model.CartItem{}, nil)

	out, err := uc.UpdateItemQuantity(context.Background(), 5, 60, 0)

	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	repos.cartItems.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_UpdateItemQuantity_OtherUsersItemHidden(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCartUsecase(tm)

	repos.cartItems.On("IsOwnedByUser", mock.Anything, int64(60), int64(5)).Return(false, nil)

	_, err := uc.UpdateItemQuantity(context.Background(), 5, 60, 3)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	repos.cartItems.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	repos.cartItems.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}
