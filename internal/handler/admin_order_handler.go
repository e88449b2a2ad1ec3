package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin/orders と /admin/custom-orders をまとめる
type AdminOrderHandler struct {
	orders  *usecase.AdminOrderUsecase
	customs *usecase.CustomOrderUsecase
}

func NewAdminOrderHandler(orders *usecase.AdminOrderUsecase, customs *usecase.CustomOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders, customs: customs}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

type VerifyPaymentRequest struct {
	FinalPrice int64 `json:"final_price"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/orders", h.listOrders)
	admin.PUT("/orders/:ref/status", h.updateOrderStatus)

	admin.GET("/custom-orders", h.listCustomOrders)
	admin.GET("/custom-orders/:id", h.customOrderDetail)
	admin.POST("/custom-orders/:id/approve", h.approve)
	admin.POST("/custom-orders/:id/reject", h.reject)
	admin.POST("/custom-orders/:id/verify-payment", h.verifyPayment)
}

func (h *AdminOrderHandler) listOrders(c echo.Context) error {
	in := usecase.AdminOrderListInput{Page: 1, Limit: 20, Status: c.QueryParam("status")}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		in.Page = p
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = l
	}
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		in.UserID = &id
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		in.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		in.To = &t
	}

	items, total, err := h.orders.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "total": total})
}

func (h *AdminOrderHandler) updateOrderStatus(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.orders.UpdateStatus(c.Request().Context(), adminID, c.Param("ref"), model.OrderStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) listCustomOrders(c echo.Context) error {
	in := usecase.CustomOrderAdminListInput{
		Page:           1,
		Limit:          20,
		ApprovalStatus: c.QueryParam("approval_status"),
		DeliveryStatus: c.QueryParam("delivery_status"),
	}

	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		in.Page = p
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = l
	}
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		in.UserID = &id
	}

	items, total, err := h.customs.ListAdmin(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "total": total})
}

func (h *AdminOrderHandler) customOrderDetail(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.customs.Get(c.Request().Context(), adminID, true, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) approve(c echo.Context) error {
	return h.review(c, true)
}

func (h *AdminOrderHandler) reject(c echo.Context) error {
	return h.review(c, false)
}

func (h *AdminOrderHandler) review(c echo.Context, approve bool) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.customs.Review(c.Request().Context(), adminID, c.Param("id"), approve)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) verifyPayment(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.customs.VerifyPayment(c.Request().Context(), adminID, c.Param("id"), usecase.VerifyPaymentInput{
		FinalPrice: req.FinalPrice,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
