package db

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Models lists every table owned by the storefront, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Customer{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderLine{},
		&model.Payment{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB runs migrations against the given connection
func MigrateDB(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// DemoCatalog returns the products inserted by the development seed route.
func DemoCatalog() []model.Product {
	return []model.Product{
		{Name: "Gaming Laptop Pro", Description: "High performance laptop with a dedicated graphics card.", Price: decimal.NewFromInt(5500), Stock: 10},
		{Name: "Ergonomic Mouse", Description: "Wireless mouse designed for long working sessions.", Price: decimal.NewFromInt(250), Stock: 50},
		{Name: "RGB Mechanical Keyboard", Description: "Mechanical switches with customizable RGB lighting.", Price: decimal.NewFromInt(450), Stock: 30},
		{Name: "Ultrawide Monitor 29\"", Description: "21:9 panel for extra screen real estate.", Price: decimal.NewFromInt(1200), Stock: 15},
		{Name: "4K Webcam Pro", Description: "4K webcam with a built-in microphone.", Price: decimal.NewFromInt(850), Stock: 25},
		{Name: "Surround Headset 7.1", Description: "7.1 surround headset for immersive gaming.", Price: decimal.NewFromInt(650), Stock: 40},
	}
}
