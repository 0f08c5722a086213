// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/trippydrip/storefront-backend/internal/domain/order"
	"github.com/trippydrip/storefront-backend/internal/domain/product"
	"github.com/trippydrip/storefront-backend/internal/domain/user"
)

// Migrate runs schema migrations for all entities
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&user.User{},
		&product.Product{},
		&order.Order{},
		&order.Item{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Seed inserts the launch catalog when the products table is empty.
// It only runs in development.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := []product.Product{
		{
			ID:            "hoodie-acid",
			Name:          "Acid Wash Hoodie",
			Description:   "Heavyweight fleece hoodie with an acid-wash finish.",
			Price:         8999,
			Category:      product.CategoryHoodies,
			ImageURL:      "/images/hoodie-acid.jpg",
			Sizes:         []string{"S", "M", "L", "XL"},
			Colors:        []string{"black", "purple"},
			StockQuantity: 40,
		},
		{
			ID:            "tee-melt",
			Name:          "Melting Logo Tee",
			Description:   "Organic cotton tee with the melting logo print.",
			Price:         2450,
			Category:      product.CategoryTees,
			ImageURL:      "/images/tee-melt.jpg",
			Sizes:         []string{"S", "M", "L", "XL"},
			Colors:        []string{"white", "black"},
			StockQuantity: 120,
		},
		{
			ID:            "beanie-fractal",
			Name:          "Fractal Beanie",
			Description:   "Ribbed knit beanie with the fractal patch.",
			Price:         1800,
			Category:      product.CategoryAccessories,
			ImageURL:      "/images/beanie-fractal.jpg",
			Sizes:         []string{"one-size"},
			Colors:        []string{"green", "black"},
			StockQuantity: 75,
		},
	}

	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	return nil
}
