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

func TestProductUsecase_GetProductDetail_InactiveHidden(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewProductUsecase(tm)

	repos.products.On("FindByID", mock.Anything, int64(2)).
		Return(model.Product{ID: 2, Name: "Linen Shirt", IsActive: false}, nil)

	_, err := uc.GetProductDetail(context.Background(), 2)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestProductUsecase_GetProductDetail_VariantsCarryStockStatus(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewProductUsecase(tm)

	repos.products.On("FindByID", mock.Anything, int64(2)).
		Return(model.Product{ID: 2, Name: "Linen Shirt", Price: 4800, IsActive: true}, nil)
	repos.variants.On("ListByProductID", mock.Anything, int64(2)).
		Return([]model.ProductVariant{
			{ID: 20, Size: "M", Color: "black", AvailableQuantity: 4, StockStatus: model.StockStatusCritical},
			{ID: 21, Size: "L", Color: "black", AvailableQuantity: 0, StockStatus: model.StockStatusOut},
		}, nil)

	out, err := uc.GetProductDetail(context.Background(), 2)

	assert.NoError(t, err)
	assert.Len(t, out.Variants, 2)
	assert.Equal(t, string(model.StockStatusCritical), out.Variants[0].StockStatus)
	assert.Equal(t, string(model.StockStatusOut), out.Variants[1].StockStatus)
}

func TestProductUsecase_AdminCreateVariant_Duplicate(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewProductUsecase(tm)

	repos.products.On("FindByID", mock.Anything, int64(2)).
		Return(model.Product{ID: 2, IsActive: true}, nil)
	repos.variants.On("FindByKey", mock.Anything, int64(2), "M", "black").
		Return(model.ProductVariant{ID: 20}, nil)

	_, err := uc.AdminCreateVariant(context.Background(), 2, AdminCreateVariantInput{
		Size: "M", Color: "black", StockQuantity: 10,
	})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	repos.variants.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_AdminSetVariantStock_BelowReserved(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewProductUsecase(tm)

	repos.variants.On("FindByID", mock.Anything, int64(20)).
		Return(model.ProductVariant{ID: 20, StockQuantity: 10, ReservedQuantity: 5}, nil)
	repos.inventory.On("SetStock", mock.Anything, int64(20), int64(3)).
		Return(model.ProductVariant{}, repo.ErrStockBelowReserved)

	_, err := uc.AdminSetVariantStock(context.Background(), 10, 20, SetVariantStockInput{StockQuantity: 3})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assert.Equal(t, CodeInsufficientStock, he.Code)
	repos.inventory.AssertNotCalled(t, "CreateAdjustment", mock.Anything, mock.Anything)
}

func TestProductUsecase_AdminSetVariantStock_RecordsDelta(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewProductUsecase(tm)

	repos.variants.On("FindByID", mock.Anything, int64(20)).
		Return(model.ProductVariant{ID: 20, StockQuantity: 10, AvailableQuantity: 8, ReservedQuantity: 2}, nil)
	repos.inventory.On("SetStock", mock.Anything, int64(20), int64(25)).
		Return(model.ProductVariant{ID: 20, StockQuantity: 25, AvailableQuantity: 23, ReservedQuantity: 2, StockStatus: model.StockStatusIn}, nil)
	repos.inventory.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(a model.InventoryAdjustment) bool {
		return a.VariantID == 20 && a.Delta == 15 && a.Reason == "restock"
	})).Return(nil)
	repos.auditLogs.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.AdminSetVariantStock(context.Background(), 10, 20, SetVariantStockInput{
		StockQuantity: 25,
		Reason:        "restock",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(25), out.StockQuantity)
	assert.Equal(t, int64(23), out.AvailableQuantity)
}
