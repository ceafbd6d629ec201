package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	catalogService service.CatalogService
}

func NewProductController(catalogService service.CatalogService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
	}
}

// ListProducts returns published products matching the query filters
// GET /api/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	filter, err := productFilterFromQuery(c)
	if err != nil {
		invalidInput(c, err, err.Error())
		return
	}

	products, err := ctrl.catalogService.ListPublished(filter)
	if err != nil {
		apperrors.Respond(c, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// BestSelling GET /api/products/best-selling
func (ctrl *ProductController) BestSelling(c *gin.Context) {
	products, err := ctrl.catalogService.BestSelling()
	if err != nil {
		apperrors.Respond(c, err, "get best selling products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// NewArrivals GET /api/products/new-arrivals
func (ctrl *ProductController) NewArrivals(c *gin.Context) {
	products, err := ctrl.catalogService.NewArrivals()
	if err != nil {
		apperrors.Respond(c, err, "get new arrivals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// Similar GET /api/products/similar/:id
func (ctrl *ProductController) Similar(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	products, err := ctrl.catalogService.Similar(id)
	if err != nil {
		apperrors.Respond(c, err, "get similar products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProduct GET /api/products/:id and /api/admin/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := ctrl.catalogService.GetProduct(id)
	if err != nil {
		apperrors.Respond(c, err, "get product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// AdminListProducts GET /api/admin/products
func (ctrl *ProductController) AdminListProducts(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	products, err := ctrl.catalogService.AdminList(actor)
	if err != nil {
		apperrors.Respond(c, err, "list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// CreateProduct POST /api/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidInput(c, err, "Invalid product data")
		return
	}

	product, err := ctrl.catalogService.CreateProduct(actor, input)
	if err != nil {
		apperrors.Respond(c, err, "create product")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct PUT /api/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.ProductUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidInput(c, err, "Invalid product data")
		return
	}

	product, err := ctrl.catalogService.UpdateProduct(actor, id, input)
	if err != nil {
		apperrors.Respond(c, err, "update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct DELETE /api/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.catalogService.DeleteProduct(actor, id); err != nil {
		apperrors.Respond(c, err, "delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}

type queryError string

func (e queryError) Error() string { return string(e) }

// productFilterFromQuery reads the storefront filters. Brand, material, size
// and color accept comma separated values.
func productFilterFromQuery(c *gin.Context) (repository.ProductFilter, error) {
	filter := repository.ProductFilter{
		Collection: c.Query("collection"),
		Category:   c.Query("category"),
		Gender:     c.Query("gender"),
		Brands:     splitQuery(c.Query("brand")),
		Materials:  splitQuery(c.Query("material")),
		Sizes:      splitQuery(c.Query("size")),
		Colors:     splitQuery(c.Query("color")),
		Search:     strings.TrimSpace(c.Query("search")),
	}

	for key, dst := range map[string]**decimal.Decimal{"minPrice": &filter.MinPrice, "maxPrice": &filter.MaxPrice} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, queryError(key + " must be a number")
		}
		*dst = &value
	}

	switch sort := repository.ProductSort(c.Query("sortBy")); sort {
	case repository.ProductSortNewest, repository.ProductSortPriceAsc, repository.ProductSortPriceDesc, repository.ProductSortPopularity:
		filter.SortBy = sort
	default:
		return filter, queryError("sortBy must be priceAsc, priceDesc or popularity")
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, queryError("limit must be a non-negative integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	return service.NormalizeList(strings.Split(raw, ","))
}
