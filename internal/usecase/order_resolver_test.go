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

func TestResolveOrderRef_PublicID_Found(t *testing.T) {
	orders := &orderRepoMock{}
	customs := &customOrderRepoMock{}

	customs.On("FindByPublicID", mock.Anything, "CUSTOM-AB12-CD34-EF56").
		Return(model.CustomOrder{ID: 7, PublicID: "CUSTOM-AB12-CD34-EF56", UserID: 3}, true, nil)

	ro, err := resolveOrderRef(context.Background(), orders, customs, "CUSTOM-AB12-CD34-EF56")

	assert.NoError(t, err)
	assert.Equal(t, model.OrderKindCustom, ro.Kind)
	assert.False(t, ro.HasOrder)
	assert.Equal(t, int64(7), ro.CustomOrder.ID)
	assert.Equal(t, model.CustomOrderRef(7), ro.Ref())
	assert.Equal(t, int64(3), ro.UserID())
	orders.AssertNotCalled(t, "FindByOrderNumber", mock.Anything, mock.Anything)
}

func TestResolveOrderRef_PublicID_NotFound(t *testing.T) {
	orders := &orderRepoMock{}
	customs := &customOrderRepoMock{}

	customs.On("FindByPublicID", mock.Anything, "CUSTOM-0000-0000-0000").
		Return(model.CustomOrder{}, false, nil)

	_, err := resolveOrderRef(context.Background(), orders, customs, "CUSTOM-0000-0000-0000")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, CodeOrderNotFound, he.Code)
}

func TestResolveOrderRef_OrderNumber_Regular(t *testing.T) {
	orders := &orderRepoMock{}
	customs := &customOrderRepoMock{}

	orders.On("FindByOrderNumber", mock.Anything, "ORD-20260829-AAAAAA").
		Return(model.Order{ID: 11, OrderNumber: "ORD-20260829-AAAAAA", UserID: 5}, true, nil)

	ro, err := resolveOrderRef(context.Background(), orders, customs, "ORD-20260829-AAAAAA")

	assert.NoError(t, err)
	assert.Equal(t, model.OrderKindRegular, ro.Kind)
	assert.True(t, ro.HasOrder)
	assert.Equal(t, model.RegularOrderRef(11), ro.Ref())
}

func TestResolveOrderRef_FK_PreferredOverNotes(t *testing.T) {
	orders := &orderRepoMock{}
	customs := &customOrderRepoMock{}

	linked := int64(42)
	orders.On("FindByOrderNumber", mock.Anything, "ORD-20260829-BBBBBB").
		Return(model.Order{
			ID:                  12,
			UserID:              5,
			LinkedCustomOrderID: &linked,
			//FKがある場合はnotesの参照は見ない
			Notes: "Reference: CUSTOM-ZZZZ-ZZZZ-ZZZZ",
		}, true, nil)
	customs.On("FindByID", mock.Anything, int64(42)).
		Return(model.CustomOrder{ID: 42, UserID: 5}, nil)

	ro, err := resolveOrderRef(context.Background(), orders, customs, "ORD-20260829-BBBBBB")

	assert.NoError(t, err)
	assert.Equal(t, model.OrderKindCustom, ro.Kind)
	assert.True(t, ro.HasOrder)
	assert.Equal(t, int64(42), ro.CustomOrder.ID)
	customs.AssertNotCalled(t, "FindByPublicID", mock.Anything, mock.Anything)
}

func TestResolveOrderRef_LegacyNotesFallback(t *testing.T) {
	orders := &orderRepoMock{}
	customs := &customOrderRepoMock{}

	orders.On("FindByOrderNumber", mock.Anything, "ORD-20240101-CCCCCC").
		Return(model.Order{
			ID:     13,
			UserID: 5,
			Notes:  "gift wrap please. Reference: CUSTOM-AB12-CD34-EF56",
		}, true, nil)
	customs.On("FindByPublicID", mock.Anything, "CUSTOM-AB12-CD34-EF56").
		Return(model.CustomOrder{ID: 9, UserID: 5}, true, nil)

	ro, err := resolveOrderRef(context.Background(), orders, customs, "ORD-20240101-CCCCCC")

	assert.NoError(t, err)
	assert.Equal(t, model.OrderKindCustom, ro.Kind)
	assert.Equal(t, int64(9), ro.CustomOrder.ID)
}

func TestResolveOrderRef_DanglingFK_FallsBackToRegular(t *testing.T) {
	orders := &orderRepoMock{}
	customs := &customOrderRepoMock{}

	linked := int64(99)
	orders.On("FindByOrderNumber", mock.Anything, "ORD-20260829-DDDDDD").
		Return(model.Order{ID: 14, UserID: 5, LinkedCustomOrderID: &linked}, true, nil)
	customs.On("FindByID", mock.Anything, int64(99)).
		Return(model.CustomOrder{}, repo.ErrNotFound)

	ro, err := resolveOrderRef(context.Background(), orders, customs, "ORD-20260829-DDDDDD")

	assert.NoError(t, err)
	assert.Equal(t, model.OrderKindRegular, ro.Kind)
	assert.Equal(t, int64(14), ro.Order.ID)
}

func TestResolveOrderRef_OrderNumber_NotFound(t *testing.T) {
	orders := &orderRepoMock{}
	customs := &customOrderRepoMock{}

	orders.On("FindByOrderNumber", mock.Anything, "ORD-20260829-EEEEEE").
		Return(model.Order{}, false, nil)

	_, err := resolveOrderRef(context.Background(), orders, customs, "ORD-20260829-EEEEEE")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, CodeOrderNotFound, he.Code)
}
