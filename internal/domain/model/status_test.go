package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrder_ForwardPath(t *testing.T) {
	assert.True(t, CanTransitionOrder(OrderStatusPending, OrderStatusConfirmed))
	assert.True(t, CanTransitionOrder(OrderStatusConfirmed, OrderStatusProcessing))
	assert.True(t, CanTransitionOrder(OrderStatusProcessing, OrderStatusShipped))
	assert.True(t, CanTransitionOrder(OrderStatusShipped, OrderStatusDelivered))
}

func TestCanTransitionOrder_RejectsSkipsAndBackwards(t *testing.T) {
	assert.False(t, CanTransitionOrder(OrderStatusPending, OrderStatusShipped))
	assert.False(t, CanTransitionOrder(OrderStatusShipped, OrderStatusConfirmed))
	assert.False(t, CanTransitionOrder(OrderStatusDelivered, OrderStatusCanceled))
	assert.False(t, CanTransitionOrder(OrderStatusCanceled, OrderStatusPending))
}

func TestCanTransitionOrder_CancelBeforeDelivery(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped} {
		assert.True(t, CanTransitionOrder(from, OrderStatusCanceled), string(from))
	}
}

func TestIsTerminalOrderStatus(t *testing.T) {
	assert.True(t, IsTerminalOrderStatus(OrderStatusDelivered))
	assert.True(t, IsTerminalOrderStatus(OrderStatusCanceled))
	assert.False(t, IsTerminalOrderStatus(OrderStatusShipped))
}

func TestCanTransitionApproval(t *testing.T) {
	assert.True(t, CanTransitionApproval(ApprovalStatusPending, ApprovalStatusApproved))
	assert.True(t, CanTransitionApproval(ApprovalStatusPending, ApprovalStatusRejected))
	assert.True(t, CanTransitionApproval(ApprovalStatusPending, ApprovalStatusCanceled))
	assert.True(t, CanTransitionApproval(ApprovalStatusApproved, ApprovalStatusCanceled))

	assert.False(t, CanTransitionApproval(ApprovalStatusRejected, ApprovalStatusApproved))
	assert.False(t, CanTransitionApproval(ApprovalStatusCanceled, ApprovalStatusApproved))
	assert.False(t, CanTransitionApproval(ApprovalStatusApproved, ApprovalStatusRejected))
}

func TestCanTransitionDelivery_DelayedRoundTrip(t *testing.T) {
	//DELAYEDは一時停止。SCHEDULEDに戻ってやり直せる
	assert.True(t, CanTransitionDelivery(DeliveryStatusScheduled, DeliveryStatusDelayed))
	assert.True(t, CanTransitionDelivery(DeliveryStatusDelayed, DeliveryStatusScheduled))
}

func TestCanTransitionDelivery_TerminalStates(t *testing.T) {
	for _, to := range []DeliveryStatus{
		DeliveryStatusPending, DeliveryStatusScheduled, DeliveryStatusInTransit,
		DeliveryStatusDelivered, DeliveryStatusDelayed, DeliveryStatusCanceled,
	} {
		assert.False(t, CanTransitionDelivery(DeliveryStatusDelivered, to), string(to))
		assert.False(t, CanTransitionDelivery(DeliveryStatusCanceled, to), string(to))
	}
}

func TestCanTransitionDelivery_NoSkipToDelivered(t *testing.T) {
	assert.False(t, CanTransitionDelivery(DeliveryStatusPending, DeliveryStatusDelivered))
	assert.False(t, CanTransitionDelivery(DeliveryStatusScheduled, DeliveryStatusDelivered))
	assert.True(t, CanTransitionDelivery(DeliveryStatusInTransit, DeliveryStatusDelivered))
}

func TestIsActiveDelivery(t *testing.T) {
	for _, s := range []DeliveryStatus{DeliveryStatusPending, DeliveryStatusScheduled, DeliveryStatusInTransit, DeliveryStatusDelayed} {
		assert.True(t, IsActiveDelivery(s), string(s))
	}
	assert.False(t, IsActiveDelivery(DeliveryStatusDelivered))
	assert.False(t, IsActiveDelivery(DeliveryStatusCanceled))

	assert.ElementsMatch(t,
		[]DeliveryStatus{DeliveryStatusPending, DeliveryStatusScheduled, DeliveryStatusInTransit, DeliveryStatusDelayed},
		ActiveDeliveryStatuses())
}

func TestStockStatusFor(t *testing.T) {
	assert.Equal(t, StockStatusOut, StockStatusFor(0))
	assert.Equal(t, StockStatusCritical, StockStatusFor(1))
	assert.Equal(t, StockStatusCritical, StockStatusFor(5))
	assert.Equal(t, StockStatusLow, StockStatusFor(6))
	assert.Equal(t, StockStatusLow, StockStatusFor(15))
	assert.Equal(t, StockStatusIn, StockStatusFor(16))
}
