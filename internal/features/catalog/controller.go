package catalog

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogController struct {
	ProductRepo   ProductRepository
	CategoryRepo  CategoryRepository
	InventoryRepo InventoryRepository
}

func NewCatalogController(productRepo ProductRepository, categoryRepo CategoryRepository, inventoryRepo InventoryRepository) *CatalogController {
	return &CatalogController{
		ProductRepo:   productRepo,
		CategoryRepo:  categoryRepo,
		InventoryRepo: inventoryRepo,
	}
}

// ListProducts godoc
// @Summary      List catalog products
// @Tags         catalog
// @Produce      json
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200  {array}  Product
// @Router       /api/catalog/products [get]
func (ctrl *CatalogController) ListProducts(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	products, err := ctrl.ProductRepo.List(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(products)
}

// ListCategories godoc
// @Summary      List categories
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  Category
// @Router       /api/catalog/categories [get]
func (ctrl *CatalogController) ListCategories(c *fiber.Ctx) error {
	categories, err := ctrl.CategoryRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(categories)
}

// StoreInventory godoc
// @Summary      List inventory levels for a store
// @Tags         catalog
// @Produce      json
// @Param        storeId path string true "Store ID"
// @Success      200  {array}  InventoryLevel
// @Router       /api/catalog/stores/{storeId}/inventory [get]
func (ctrl *CatalogController) StoreInventory(c *fiber.Ctx) error {
	storeID, err := primitive.ObjectIDFromHex(c.Params("storeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid store ID"})
	}

	levels, err := ctrl.InventoryRepo.ListByStore(c.Context(), storeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(levels)
}
