package model

// 状態遷移の定義はここに集約する。ハンドラ側でのアドホックな分岐は禁止。

// 通常注文の遷移表。CANCELEDへの遷移はキャンセル申請経由のみ
// （AdminのステータスAPIからは直接書かない）。
var orderStatusNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusConfirmed: true, OrderStatusCanceled: true},
	OrderStatusConfirmed:  {OrderStatusProcessing: true, OrderStatusCanceled: true},
	OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCanceled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true, OrderStatusCanceled: true},
	OrderStatusDelivered:  {},
	OrderStatusCanceled:   {},
}

func CanTransitionOrder(from, to OrderStatus) bool {
	return orderStatusNext[from][to]
}

func IsTerminalOrderStatus(s OrderStatus) bool {
	return s == OrderStatusDelivered || s == OrderStatusCanceled
}

// カスタムオーダーの承認側の遷移表。
// PENDING→CANCELEDは顧客の取り下げ（キャンセル申請の承認経由）。
var approvalStatusNext = map[ApprovalStatus]map[ApprovalStatus]bool{
	ApprovalStatusPending:  {ApprovalStatusApproved: true, ApprovalStatusRejected: true, ApprovalStatusCanceled: true},
	ApprovalStatusApproved: {ApprovalStatusCanceled: true},
	ApprovalStatusRejected: {},
	ApprovalStatusCanceled: {},
}

func CanTransitionApproval(from, to ApprovalStatus) bool {
	return approvalStatusNext[from][to]
}

// 配送側の遷移表。DELAYEDは一時停止で、SCHEDULEDに戻れる。
var deliveryStatusNext = map[DeliveryStatus]map[DeliveryStatus]bool{
	DeliveryStatusPending:   {DeliveryStatusScheduled: true, DeliveryStatusCanceled: true},
	DeliveryStatusScheduled: {DeliveryStatusInTransit: true, DeliveryStatusDelayed: true, DeliveryStatusCanceled: true},
	DeliveryStatusInTransit: {DeliveryStatusDelivered: true, DeliveryStatusDelayed: true, DeliveryStatusCanceled: true},
	DeliveryStatusDelayed:   {DeliveryStatusScheduled: true, DeliveryStatusCanceled: true},
	DeliveryStatusDelivered: {},
	DeliveryStatusCanceled:  {},
}

func CanTransitionDelivery(from, to DeliveryStatus) bool {
	return deliveryStatusNext[from][to]
}

// 「配達中の案件」の唯一の定義。
// 配達員削除ガード・ダッシュボード・カレンダーの全てがこれを使う。
func IsActiveDelivery(s DeliveryStatus) bool {
	switch s {
	case DeliveryStatusPending, DeliveryStatusScheduled, DeliveryStatusInTransit, DeliveryStatusDelayed:
		return true
	default:
		return false
	}
}

// IsActiveDeliveryと同じ集合。IN句で使う。
func ActiveDeliveryStatuses() []DeliveryStatus {
	return []DeliveryStatus{
		DeliveryStatusPending,
		DeliveryStatusScheduled,
		DeliveryStatusInTransit,
		DeliveryStatusDelayed,
	}
}
