package service

import (
	"errors"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/authz"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	newArrivalsLimit = 10
	similarLimit     = 4
)

type CatalogService interface {
	ListPublished(filter repository.ProductFilter) ([]model.Product, error)
	BestSelling() ([]model.Product, error)
	NewArrivals() ([]model.Product, error)
	Similar(id uint) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	AdminList(actor authz.Actor) ([]model.Product, error)
	CreateProduct(actor authz.Actor, input ProductInput) (*model.Product, error)
	UpdateProduct(actor authz.Actor, id uint, input ProductUpdateInput) (*model.Product, error)
	DeleteProduct(actor authz.Actor, id uint) error
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// ListPublished applies the storefront filters to published products only.
func (s *catalogService) ListPublished(filter repository.ProductFilter) ([]model.Product, error) {
	filter.PublishedOnly = true
	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	return products, nil
}

func (s *catalogService) BestSelling() ([]model.Product, error) {
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{SortBy: repository.ProductSortSales})
	if err != nil {
		logger.Error("Failed to list best selling products", err)
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound.WithMessage("No best selling products found")
	}
	return products, nil
}

func (s *catalogService) NewArrivals() ([]model.Product, error) {
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{Limit: newArrivalsLimit})
	if err != nil {
		logger.Error("Failed to list new arrivals", err)
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound.WithMessage("No new arrivals found")
	}
	return products, nil
}

// Similar returns up to four products sharing the category and gender.
func (s *catalogService) Similar(id uint) ([]model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		Category:  product.Category,
		Gender:    string(product.Gender),
		ExcludeID: product.ID,
		Limit:     similarLimit,
	})
	if err != nil {
		logger.Error("Failed to list similar products", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return products, nil
}

func (s *catalogService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *catalogService) AdminList(actor authz.Actor) ([]model.Product, error) {
	if !authz.Can(actor, authz.ActionManageProducts, nil) {
		return nil, ErrAdminOnly
	}
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{})
	if err != nil {
		logger.Error("Failed to list products for admin", err)
		return nil, err
	}
	return products, nil
}

func (s *catalogService) CreateProduct(actor authz.Actor, input ProductInput) (*model.Product, error) {
	if !authz.Can(actor, authz.ActionManageProducts, nil) {
		return nil, ErrAdminOnly
	}
	if err := input.Validate(); err != nil {
		logger.Warn("Product creation rejected", map[string]interface{}{
			"sku":    input.SKU,
			"reason": err.Error(),
		})
		return nil, err
	}

	product := input.Product(actor.UserID)
	if err := s.ensureSKUFree(product.SKU, 0); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"sku": product.SKU,
		})
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
		"admin_id":   actor.UserID,
	})
	return product, nil
}

func (s *catalogService) UpdateProduct(actor authz.Actor, id uint, input ProductUpdateInput) (*model.Product, error) {
	if !authz.Can(actor, authz.ActionManageProducts, nil) {
		return nil, ErrAdminOnly
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	input.Apply(product)
	if err := inputFromProduct(product).Validate(); err != nil {
		logger.Warn("Product update rejected", map[string]interface{}{
			"product_id": id,
			"reason":     err.Error(),
		})
		return nil, err
	}
	if input.SKU != nil {
		if err := s.ensureSKUFree(product.SKU, product.ID); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
		"admin_id":   actor.UserID,
	})
	return product, nil
}

func (s *catalogService) DeleteProduct(actor authz.Actor, id uint) error {
	if !authz.Can(actor, authz.ActionManageProducts, nil) {
		return ErrAdminOnly
	}

	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
		"admin_id":   actor.UserID,
	})
	return nil
}

// ensureSKUFree fails when another product already uses sku.
func (s *catalogService) ensureSKUFree(sku string, selfID uint) error {
	existing, err := s.productRepo.FindBySKU(sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrSKUExists
	}
	return nil
}
