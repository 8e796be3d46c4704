// Package catalog contains the application services for products and SKU
// sharing.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/catalog"
	"github.com/orderhub/backend/internal/domain/partner"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/domain/shared/valueobject"
	"github.com/orderhub/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

const uploadURLExpiry = 15 * time.Minute

// ProductService orchestrates product lifecycle operations
type ProductService struct {
	products  catalog.ProductRepository
	suppliers partner.SupplierRepository
	storage   storage.ObjectStorage
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	suppliers partner.SupplierRepository,
	objectStorage storage.ObjectStorage,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:  products,
		suppliers: suppliers,
		storage:   objectStorage,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates a draft product for a supplier
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier.Status == partner.SupplierStatusOffboarded {
		return nil, shared.NewDomainError("INVALID_STATE", "Offboarded suppliers cannot create products")
	}

	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	exists, err := s.products.ExistsBySupplierAndSKU(ctx, req.SupplierID, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "This supplier already has a product with this SKU")
	}

	product, err := catalog.NewProduct(req.SupplierID, sku, req.Name, req.Unit, valueobject.NewMoneyUSD(req.UnitPrice))
	if err != nil {
		return nil, err
	}
	if req.Description != "" || req.Category != "" || req.Barcode != "" {
		if err := product.UpdateDetails(product.Name, req.Description, req.Category, req.Barcode); err != nil {
			return nil, err
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("supplier_id", product.SupplierID.String()),
		zap.String("sku", product.SKU),
	)

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID returns a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns products matching the filter. Without a supplier the listing
// covers public products only.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.Status != "" {
		status := catalog.ProductStatus(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown product status")
		}
		f.Filters["status"] = string(status)
	}
	if filter.Category != "" {
		f.Filters["category"] = filter.Category
	}

	var (
		products []catalog.Product
		total    int64
		err      error
	)
	if filter.SupplierID != nil {
		products, total, err = s.products.FindBySupplier(ctx, *filter.SupplierID, f)
	} else {
		products, total, err = s.products.FindPublic(ctx, f)
	}
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToProductResponses(products), total, f.Page, f.PageSize)
	return &result, nil
}

// Update changes product details
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	description := product.Description
	category := product.Category
	barcode := product.Barcode
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Category != nil {
		category = *req.Category
	}
	if req.Barcode != nil {
		barcode = *req.Barcode
	}
	if err := product.UpdateDetails(name, description, category, barcode); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// UpdatePrice sets a new unit price. Open orders keep the price captured at
// submission.
func (s *ProductService) UpdatePrice(ctx context.Context, id uuid.UUID, req UpdatePriceRequest) (*ProductResponse, error) {
	return s.transition(ctx, id, func(product *catalog.Product) error {
		return product.UpdatePrice(valueobject.NewMoneyUSD(req.UnitPrice))
	})
}

// Activate makes the product orderable
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, id, (*catalog.Product).Activate)
}

// Discontinue permanently removes the product from sale
func (s *ProductService) Discontinue(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, id, (*catalog.Product).Discontinue)
}

// MakePublic opens the SKU to all customers
func (s *ProductService) MakePublic(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, id, (*catalog.Product).MakePublic)
}

// MakePrivate restricts the SKU to explicitly shared customers
func (s *ProductService) MakePrivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, id, (*catalog.Product).MakePrivate)
}

// GenerateImageUploadURL returns a presigned URL for uploading the product
// image and records the object key on the product.
func (s *ProductService) GenerateImageUploadURL(ctx context.Context, id uuid.UUID, req ProductImageUploadRequest) (*UploadURLResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s", product.ID, uuid.New())
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, uploadURLExpiry)
	if err != nil {
		return nil, err
	}

	product.SetImageKey(key)
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	return &UploadURLResponse{ObjectKey: key, UploadURL: url, ExpiresAt: expiresAt}, nil
}

// GetImageDownloadURL returns a presigned URL for the product image
func (s *ProductService) GetImageDownloadURL(ctx context.Context, id uuid.UUID) (*UploadURLResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.ImageKey == "" {
		return nil, shared.ErrNotFound
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, product.ImageKey, uploadURLExpiry)
	if err != nil {
		return nil, err
	}
	return &UploadURLResponse{ObjectKey: product.ImageKey, UploadURL: url, ExpiresAt: expiresAt}, nil
}

func (s *ProductService) transition(ctx context.Context, id uuid.UUID, apply func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(product); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
	product.ClearDomainEvents()
}
