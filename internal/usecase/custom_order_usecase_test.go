package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewCustomPublicID_Format(t *testing.T) {
	id := newCustomPublicID()

	assert.Regexp(t, `^CUSTOM-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}$`, id)
	assert.NotEqual(t, id, newCustomPublicID())
}

func TestCustomOrderUsecase_Create_StartsPending(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCustomOrderUsecase(tm, 7)

	repos.customOrders.On("Create", mock.Anything, mock.MatchedBy(func(co model.CustomOrder) bool {
		return co.UserID == 5 &&
			co.ApprovalStatus == model.ApprovalStatusPending &&
			co.DeliveryStatus == model.DeliveryStatusPending &&
			strings.HasPrefix(co.PublicID, "CUSTOM-")
	})).Return(int64(7), nil)

	out, err := uc.Create(context.Background(), 5, CreateCustomOrderInput{
		DesignNotes:    "袖にイニシャル刺繍",
		Size:           "M",
		Color:          "navy",
		EstimatedPrice: 20000,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, string(model.ApprovalStatusPending), out.ApprovalStatus)
	//完成予定日 = 受付日 + リードタイム
	assert.Equal(t, out.CreatedAt.AddDate(0, 0, 7), out.EstimatedCompletion)
	//受注生産なので在庫は引き当てない
	repos.inventory.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomOrderUsecase_Review_Approve(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCustomOrderUsecase(tm, 7)

	repos.customOrders.On("FindByPublicID", mock.Anything, "CUSTOM-AB12-CD34-EF56").
		Return(model.CustomOrder{ID: 7, PublicID: "CUSTOM-AB12-CD34-EF56", ApprovalStatus: model.ApprovalStatusPending}, true, nil)
	repos.customOrders.On("UpdateApprovalStatus", mock.Anything, int64(7), model.ApprovalStatusApproved).Return(nil)
	repos.auditLogs.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Review(context.Background(), 10, "CUSTOM-AB12-CD34-EF56", true)

	assert.NoError(t, err)
	assert.Equal(t, string(model.ApprovalStatusApproved), out.ApprovalStatus)
	repos.auditLogs.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionReviewCustomOrder && l.ResourceID == 7
	}))
}

func TestCustomOrderUsecase_Review_RejectAfterApprove_Conflicts(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCustomOrderUsecase(tm, 7)

	repos.customOrders.On("FindByPublicID", mock.Anything, "CUSTOM-AB12-CD34-EF56").
		Return(model.CustomOrder{ID: 7, ApprovalStatus: model.ApprovalStatusApproved}, true, nil)

	_, err := uc.Review(context.Background(), 10, "CUSTOM-AB12-CD34-EF56", false)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assert.Equal(t, CodeInvalidTransition, he.Code)
	repos.customOrders.AssertNotCalled(t, "UpdateApprovalStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomOrderUsecase_VerifyPayment_RequiresApproved(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCustomOrderUsecase(tm, 7)

	repos.customOrders.On("FindByPublicID", mock.Anything, "CUSTOM-AB12-CD34-EF56").
		Return(model.CustomOrder{ID: 7, ApprovalStatus: model.ApprovalStatusPending}, true, nil)

	_, err := uc.VerifyPayment(context.Background(), 10, "CUSTOM-AB12-CD34-EF56", VerifyPaymentInput{FinalPrice: 22000})

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assert.Equal(t, CodeInvalidTransition, he.Code)
	repos.customOrders.AssertNotCalled(t, "MarkPaymentVerified", mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomOrderUsecase_VerifyPayment_ConfirmsShellOrder(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCustomOrderUsecase(tm, 7)

	finalPrice := int64(22000)
	now := time.Now()
	repos.customOrders.On("FindByPublicID", mock.Anything, "CUSTOM-AB12-CD34-EF56").
		Return(model.CustomOrder{ID: 7, ApprovalStatus: model.ApprovalStatusApproved, EstimatedPrice: 20000}, true, nil)
	repos.customOrders.On("MarkPaymentVerified", mock.Anything, int64(7), int64(22000)).Return(nil)
	repos.orders.On("FindByLinkedCustomOrderID", mock.Anything, int64(7)).
		Return(model.Order{ID: 42, Status: model.OrderStatusPending}, true, nil)
	repos.orders.On("UpdateStatus", mock.Anything, int64(42), model.OrderStatusConfirmed).Return(nil)
	repos.auditLogs.On("Create", mock.Anything, mock.Anything).Return(nil)
	repos.customOrders.On("FindByID", mock.Anything, int64(7)).
		Return(model.CustomOrder{
			ID:                7,
			ApprovalStatus:    model.ApprovalStatusApproved,
			EstimatedPrice:    20000,
			FinalPrice:        &finalPrice,
			PaymentVerifiedAt: &now,
		}, nil)

	out, err := uc.VerifyPayment(context.Background(), 10, "CUSTOM-AB12-CD34-EF56", VerifyPaymentInput{FinalPrice: 22000})

	assert.NoError(t, err)
	assert.NotNil(t, out.FinalPrice)
	assert.Equal(t, int64(22000), *out.FinalPrice)
	assert.NotNil(t, out.PaymentVerifiedAt)
	repos.orders.AssertCalled(t, "UpdateStatus", mock.Anything, int64(42), model.OrderStatusConfirmed)
}

func TestCustomOrderUsecase_VerifyPayment_DefaultsToEstimate(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCustomOrderUsecase(tm, 7)

	estimated := int64(20000)
	now := time.Now()
	repos.customOrders.On("FindByPublicID", mock.Anything, "CUSTOM-AB12-CD34-EF56").
		Return(model.CustomOrder{ID: 7, ApprovalStatus: model.ApprovalStatusApproved, EstimatedPrice: estimated}, true, nil)
	//final_price未指定なら見積額で確定する
	repos.customOrders.On("MarkPaymentVerified", mock.Anything, int64(7), estimated).Return(nil)
	repos.orders.On("FindByLinkedCustomOrderID", mock.Anything, int64(7)).
		Return(model.Order{}, false, nil)
	repos.auditLogs.On("Create", mock.Anything, mock.Anything).Return(nil)
	repos.customOrders.On("FindByID", mock.Anything, int64(7)).
		Return(model.CustomOrder{
			ID:                7,
			ApprovalStatus:    model.ApprovalStatusApproved,
			EstimatedPrice:    estimated,
			FinalPrice:        &estimated,
			PaymentVerifiedAt: &now,
		}, nil)

	out, err := uc.VerifyPayment(context.Background(), 10, "CUSTOM-AB12-CD34-EF56", VerifyPaymentInput{})

	assert.NoError(t, err)
	assert.NotNil(t, out.FinalPrice)
	assert.Equal(t, estimated, *out.FinalPrice)
}

func TestCustomOrderUsecase_Get_OtherUsersOrderHidden(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCustomOrderUsecase(tm, 7)

	repos.customOrders.On("FindByPublicID", mock.Anything, "CUSTOM-AB12-CD34-EF56").
		Return(model.CustomOrder{ID: 7, UserID: 99}, true, nil)

	_, err := uc.Get(context.Background(), 5, false, "CUSTOM-AB12-CD34-EF56")

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, CodeOrderNotFound, he.Code)
}

func TestCustomOrderUsecase_Get_AdminSeesAny(t *testing.T) {
	tm, repos := newTxManagerMock()
	uc := NewCustomOrderUsecase(tm, 7)

	repos.customOrders.On("FindByPublicID", mock.Anything, "CUSTOM-AB12-CD34-EF56").
		Return(model.CustomOrder{ID: 7, UserID: 99, PublicID: "CUSTOM-AB12-CD34-EF56"}, true, nil)

	out, err := uc.Get(context.Background(), 10, true, "CUSTOM-AB12-CD34-EF56")

	assert.NoError(t, err)
	assert.Equal(t, "CUSTOM-AB12-CD34-EF56", out.CustomOrderID)
}
