package main

import (
	"context"
	"log"
	"os"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	repo "app/internal/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("godotenv: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.CustomOrder{},
		&model.DeliverySchedule{},
		&model.Courier{},
		&model.CancellationRequest{},
		&model.RefundRequest{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("automigrate: %v", err)
	}

	userRepo := infraRepo.NewUserGormRepository(gormDB)
	if err := seedAdmin(userRepo); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	txManager := infraRepo.NewTxManagerGorm(gormDB, time.Duration(cfg.TxTimeoutMillis)*time.Millisecond)

	//Usecase生成
	productUC := usecase.NewProductUsecase(txManager)
	cartUC := usecase.NewCartUsecase(txManager)
	orderUC := usecase.NewOrderUsecase(txManager)
	customOrderUC := usecase.NewCustomOrderUsecase(txManager, cfg.ProductionLeadDays)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)
	deliveryUC := usecase.NewDeliveryUsecase(txManager, cfg.ProductionLeadDays)
	courierUC := usecase.NewCourierUsecase(txManager)
	cancellationUC := usecase.NewCancellationUsecase(txManager)

	//Handler生成
	handlers := server.Handlers{
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		CustomOrder:  handler.NewCustomOrderHandler(customOrderUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC, customOrderUC),
		Delivery:     handler.NewDeliveryHandler(deliveryUC, courierUC),
		Cancellation: handler.NewCancellationHandler(cancellationUC),
	}

	e := server.New(cfg, handlers)
	if err := server.Start(e, cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// 初回起動用の管理者ユーザー。ADMIN_EMAIL/ADMIN_PASSWORDがある時だけ作る
func seedAdmin(users repo.UserRepository) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	ctx := context.Background()

	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if err != repo.ErrNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	return users.Create(ctx, &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	})
}
