package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 配送スケジュール・配達員周りの管理API
type DeliveryHandler struct {
	deliveries *usecase.DeliveryUsecase
	couriers   *usecase.CourierUsecase
}

func NewDeliveryHandler(deliveries *usecase.DeliveryUsecase, couriers *usecase.CourierUsecase) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries, couriers: couriers}
}

type ScheduleCreateRequest struct {
	OrderRef     string `json:"order_ref"`
	DeliveryDate string `json:"delivery_date"`
	TimeSlot     string `json:"delivery_time_slot"`
	Address      string `json:"address"`
	CourierID    *int64 `json:"courier_id"`
	Notes        string `json:"notes"`
	//製作リードタイム明け前の配達日を明示的に許可する
	OverrideLeadTime bool `json:"override_lead_time"`
}

type ScheduleStatusUpdateRequest struct {
	DeliveryStatus string `json:"delivery_status"`
	Notes          string `json:"notes"`
}

type AssignCourierRequest struct {
	CourierID int64 `json:"courier_id"`
}

type CourierRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	VehicleType string `json:"vehicle_type"`
	Status      string `json:"status"`
}

func (h *DeliveryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/delivery/schedules", h.createSchedule)
	admin.PUT("/delivery/schedules/:id", h.updateScheduleStatus)
	admin.PUT("/delivery/schedules/:id/courier", h.assignCourier)
	admin.GET("/delivery/calendar", h.calendar)

	//カスタムオーダー側から見た配送ステータス更新
	admin.PATCH("/custom-orders/:id/delivery-status", h.updateCustomDeliveryStatus)

	admin.GET("/couriers", h.listCouriers)
	admin.POST("/couriers", h.createCourier)
	admin.PUT("/couriers/:id", h.updateCourier)
	admin.DELETE("/couriers/:id", h.deleteCourier)
	admin.GET("/couriers/:id/deliveries", h.courierDeliveries)
}

func (h *DeliveryHandler) createSchedule(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ScheduleCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.deliveries.Schedule(c.Request().Context(), adminID, usecase.ScheduleDeliveryInput{
		OrderRef:         req.OrderRef,
		DeliveryDate:     req.DeliveryDate,
		TimeSlot:         req.TimeSlot,
		Address:          req.Address,
		CourierID:        req.CourierID,
		Notes:            req.Notes,
		OverrideLeadTime: req.OverrideLeadTime,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) updateScheduleStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ScheduleStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.deliveries.UpdateStatus(c.Request().Context(), adminID, id, model.DeliveryStatus(req.DeliveryStatus), req.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) assignCourier(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AssignCourierRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.deliveries.AssignCourier(c.Request().Context(), adminID, id, req.CourierID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) calendar(c echo.Context) error {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid year"})
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid month"})
	}

	out, err := h.deliveries.Calendar(c.Request().Context(), year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// :id は公開ID（CUSTOM-...）
func (h *DeliveryHandler) updateCustomDeliveryStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ScheduleStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.deliveries.UpdateStatusByRef(c.Request().Context(), adminID, c.Param("id"), model.DeliveryStatus(req.DeliveryStatus))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) listCouriers(c echo.Context) error {
	out, err := h.couriers.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) createCourier(c echo.Context) error {
	var req CourierRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.couriers.Create(c.Request().Context(), usecase.CourierInput{
		Name:        req.Name,
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
		Status:      req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) updateCourier(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req CourierRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.couriers.Update(c.Request().Context(), id, usecase.CourierInput{
		Name:        req.Name,
		Phone:       req.Phone,
		VehicleType: req.VehicleType,
		Status:      req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DeliveryHandler) deleteCourier(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.couriers.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *DeliveryHandler) courierDeliveries(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.deliveries.ListActiveByCourier(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
