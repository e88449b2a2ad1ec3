package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// キャンセル・返金申請のAPI（顧客側・管理者側の両方）
type CancellationHandler struct {
	uc *usecase.CancellationUsecase
}

func NewCancellationHandler(uc *usecase.CancellationUsecase) *CancellationHandler {
	return &CancellationHandler{uc: uc}
}

type RequestCreateRequest struct {
	OrderRef string `json:"order_ref"`
	Reason   string `json:"reason"`
}

type RequestResolveRequest struct {
	//approve / reject
	Action     string `json:"action"`
	AdminNotes string `json:"admin_notes"`
}

func (h *CancellationHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/cancellation-requests", h.requestCancellation)
	g.POST("/refund-requests", h.requestRefund)

	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/cancellation-requests", h.listPendingCancellations)
	admin.PUT("/cancellation-requests/:id", h.resolveCancellation)
	admin.GET("/refund-requests", h.listPendingRefunds)
	admin.PUT("/refund-requests/:id", h.resolveRefund)
}

func (h *CancellationHandler) requestCancellation(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req RequestCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.RequestCancellation(c.Request().Context(), userID, usecase.RequestInput{
		OrderRef: req.OrderRef,
		Reason:   req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CancellationHandler) requestRefund(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req RequestCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.RequestRefund(c.Request().Context(), userID, usecase.RequestInput{
		OrderRef: req.OrderRef,
		Reason:   req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CancellationHandler) listPendingCancellations(c echo.Context) error {
	page, limit, err := pageLimit(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	items, total, err := h.uc.ListPendingCancellations(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "total": total})
}

func (h *CancellationHandler) listPendingRefunds(c echo.Context) error {
	page, limit, err := pageLimit(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page or limit"})
	}

	items, total, err := h.uc.ListPendingRefunds(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "total": total})
}

func (h *CancellationHandler) resolveCancellation(c echo.Context) error {
	adminID, id, approve, notes, errResp := h.bindResolve(c)
	if errResp != nil {
		return errResp
	}

	out, err := h.uc.ResolveCancellation(c.Request().Context(), adminID, id, approve, notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CancellationHandler) resolveRefund(c echo.Context) error {
	adminID, id, approve, notes, errResp := h.bindResolve(c)
	if errResp != nil {
		return errResp
	}

	out, err := h.uc.ResolveRefund(c.Request().Context(), adminID, id, approve, notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CancellationHandler) bindResolve(c echo.Context) (adminID int64, requestID int64, approve bool, notes string, errResp error) {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return 0, 0, false, "", c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, 0, false, "", c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req RequestResolveRequest
	if err := c.Bind(&req); err != nil {
		return 0, 0, false, "", c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	switch req.Action {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		return 0, 0, false, "", c.JSON(http.StatusBadRequest, ErrorResponse{Error: "action must be approve or reject"})
	}

	return adminID, requestID, approve, req.AdminNotes, nil
}

func pageLimit(c echo.Context) (int, int, error) {
	page := 1
	limit := 20
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, err
		}
		page = p
	}
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, err
		}
		limit = l
	}
	return page, limit, nil
}
