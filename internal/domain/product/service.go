// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
	"github.com/trippydrip/storefront-backend/internal/pkg/catalog"
	"gorm.io/gorm"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateRequest represents product creation data. Price arrives as a
// decimal; a non-numeric value fails JSON binding before any validation
// or persistence runs. Both image field spellings are accepted and
// normalized to image_url here, at the boundary.
type CreateRequest struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Category      string   `json:"category"`
	ImageURL      string   `json:"image_url"`
	Image         string   `json:"image"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	StockQuantity int      `json:"stock_quantity"`
}

// Validate checks the request and reports every missing or invalid
// field at once, so the admin UI can show them all inline.
func (r *CreateRequest) Validate() error {
	var fields []string

	if r.ID == "" {
		fields = append(fields, "id")
	}
	if r.Name == "" {
		fields = append(fields, "name")
	}
	if r.Price <= 0 {
		fields = append(fields, "price")
	}
	if len(r.Colors) == 0 {
		fields = append(fields, "colors")
	}
	if r.Category != "" && !ValidCategory(r.Category) {
		fields = append(fields, "category")
	}
	if r.StockQuantity < 0 {
		fields = append(fields, "stock_quantity")
	}

	if len(fields) > 0 {
		return apperr.NewValidation("missing or invalid fields", fields...)
	}
	return nil
}

// UpdateRequest represents a partial product update
type UpdateRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	Category      *string   `json:"category"`
	ImageURL      *string   `json:"image_url"`
	Image         *string   `json:"image"`
	Sizes         *[]string `json:"sizes"`
	Colors        *[]string `json:"colors"`
	StockQuantity *int      `json:"stock_quantity"`
}

// GetProducts returns all products, newest first
func (s *Service) GetProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// GetProduct returns a single product by id
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	var prod Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&prod).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", id)
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &prod, nil
}

// CreateProduct validates and stores a new product
func (s *Service) CreateProduct(ctx context.Context, req *CreateRequest) (*Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var existing Product
	err := s.db.WithContext(ctx).Where("id = ?", req.ID).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("product %s: %w", req.ID, apperr.ErrAlreadyExists)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check product id: %w", err)
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = req.Image
	}

	category := req.Category
	if category == "" {
		category = string(CategoryTees)
	}

	prod := Product{
		ID:            req.ID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         MinorUnits(req.Price),
		Category:      Category(category),
		ImageURL:      imageURL,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		StockQuantity: req.StockQuantity,
	}

	if err := s.db.WithContext(ctx).Create(&prod).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &prod, nil
}

// UpdateProduct applies a partial update to an existing product
func (s *Service) UpdateProduct(ctx context.Context, id string, req *UpdateRequest) (*Product, error) {
	prod, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	var fields []string
	if req.Price != nil && *req.Price <= 0 {
		fields = append(fields, "price")
	}
	if req.Colors != nil && len(*req.Colors) == 0 {
		fields = append(fields, "colors")
	}
	if req.Category != nil && !ValidCategory(*req.Category) {
		fields = append(fields, "category")
	}
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		fields = append(fields, "stock_quantity")
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation("missing or invalid fields", fields...)
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		prod.Price = MinorUnits(*req.Price)
	}
	if req.Category != nil {
		prod.Category = Category(*req.Category)
	}
	if req.ImageURL != nil && *req.ImageURL != "" {
		prod.ImageURL = *req.ImageURL
	} else if req.Image != nil && *req.Image != "" {
		prod.ImageURL = *req.Image
	}
	if req.Sizes != nil {
		prod.Sizes = *req.Sizes
	}
	if req.Colors != nil {
		prod.Colors = *req.Colors
	}
	if req.StockQuantity != nil {
		prod.StockQuantity = *req.StockQuantity
	}

	if err := s.db.WithContext(ctx).Save(prod).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return prod, nil
}

// DeleteProduct permanently removes a product. There is no soft delete
// here: the admin UI requires confirmation before calling this.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}

// Item implements catalog.Provider over the local database
func (s *Service) Item(ctx context.Context, id string) (*catalog.Item, error) {
	prod, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	item := toCatalogItem(prod)
	return &item, nil
}

// Items implements catalog.Provider over the local database
func (s *Service) Items(ctx context.Context) ([]catalog.Item, error) {
	products, err := s.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]catalog.Item, len(products))
	for i := range products {
		items[i] = toCatalogItem(&products[i])
	}
	return items, nil
}

func toCatalogItem(p *Product) catalog.Item {
	return catalog.Item{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Category:      string(p.Category),
		ImageURL:      p.ImageURL,
		Sizes:         p.Sizes,
		Colors:        p.Colors,
		StockQuantity: p.StockQuantity,
	}
}
