package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"app/internal/config"
	"app/internal/handler"
)

// Handlers はルート登録に必要なハンドラ一式
type Handlers struct {
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	CustomOrder  *handler.CustomOrderHandler
	AdminOrder   *handler.AdminOrderHandler
	Delivery     *handler.DeliveryHandler
	Cancellation *handler.CancellationHandler
}

func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowCredentials: true,
		}))
	}

	RegisterRoutes(e, cfg, h)
	return e
}

func Start(e *echo.Echo, cfg config.Config) error {
	addr := cfg.Port
	if addr == "" {
		addr = "8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}
