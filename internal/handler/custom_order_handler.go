package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /custom-orders の顧客向けAPI
type CustomOrderHandler struct {
	uc *usecase.CustomOrderUsecase
}

func NewCustomOrderHandler(uc *usecase.CustomOrderUsecase) *CustomOrderHandler {
	return &CustomOrderHandler{uc: uc}
}

type CustomOrderCreateRequest struct {
	DesignNotes    string `json:"design_notes"`
	Size           string `json:"size"`
	Color          string `json:"color"`
	EstimatedPrice int64  `json:"estimated_price"`
}

func (h *CustomOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/custom-orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
}

func (h *CustomOrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CustomOrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), userID, usecase.CreateCustomOrderInput{
		DesignNotes:    req.DesignNotes,
		Size:           req.Size,
		Color:          req.Color,
		EstimatedPrice: req.EstimatedPrice,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomOrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMy(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// :id は公開ID（CUSTOM-...）
func (h *CustomOrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Get(c.Request().Context(), userID, false, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
