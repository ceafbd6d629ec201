package repository

import (
	"fmt"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortNewest     ProductSort = ""
	ProductSortPriceAsc   ProductSort = "priceAsc"
	ProductSortPriceDesc  ProductSort = "priceDesc"
	ProductSortPopularity ProductSort = "popularity"
	ProductSortSales      ProductSort = "sales"
)

// ProductFilter narrows a catalog listing. Multi-valued fields match any of
// their values. Text matches are case-insensitive substrings.
type ProductFilter struct {
	Collection    string
	Category      string
	Gender        string
	Brands        []string
	Materials     []string
	Sizes         []string
	Colors        []string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Search        string
	PublishedOnly bool
	ExcludeID     uint
	SortBy        ProductSort
	Limit         int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name": product.Name,
		"sku":  product.SKU,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"sku": product.SKU,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

// jsonListContains matches a JSON string array column holding value.
func jsonListContains(query *gorm.DB, column string, values []string) *gorm.DB {
	if len(values) == 0 {
		return query
	}
	clauses := make([]string, 0, len(values))
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		clauses = append(clauses, column+" LIKE ?")
		args = append(args, fmt.Sprintf("%%%q%%", v))
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"collection": filter.Collection,
		"category":   filter.Category,
		"gender":     filter.Gender,
		"search":     filter.Search,
		"sort_by":    filter.SortBy,
		"limit":      filter.Limit,
	})

	query := r.db.Model(&model.Product{})

	if filter.Collection != "" && !strings.EqualFold(filter.Collection, "all") {
		query = query.Where("LOWER(collections) LIKE ?", "%"+strings.ToLower(filter.Collection)+"%")
	}
	if filter.Category != "" && !strings.EqualFold(filter.Category, "all") {
		category := strings.ReplaceAll(strings.ToLower(filter.Category), "-", " ")
		query = query.Where("LOWER(category) LIKE ?", "%"+category+"%")
	}
	if filter.Gender != "" {
		query = query.Where("LOWER(gender) = ?", strings.ToLower(filter.Gender))
	}
	if len(filter.Brands) > 0 {
		query = query.Where("brand IN ?", filter.Brands)
	}
	if len(filter.Materials) > 0 {
		query = query.Where("material IN ?", filter.Materials)
	}
	query = jsonListContains(query, "sizes", filter.Sizes)
	query = jsonListContains(query, "colors", filter.Colors)
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filter.ExcludeID != 0 {
		query = query.Where("id <> ?", filter.ExcludeID)
	}

	switch filter.SortBy {
	case ProductSortPriceAsc:
		query = query.Order("price ASC")
	case ProductSortPriceDesc:
		query = query.Order("price DESC")
	case ProductSortPopularity:
		query = query.Order("rating DESC")
	case ProductSortSales:
		query = query.Order("sales DESC")
	}
	query = query.Order("created_at DESC").Order("id DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"category": filter.Category,
			"search":   filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		logger.Debug("Product not loaded by ID", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Product{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete product from database", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Product deleted from database", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
