package store

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StoreController struct {
	StoreRepo StoreRepository
}

func NewStoreController(storeRepo StoreRepository) *StoreController {
	return &StoreController{StoreRepo: storeRepo}
}

type CreateStoreRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Location string `json:"location"`
}

// ListStores godoc
// @Summary      List active stores
// @Tags         stores
// @Produce      json
// @Success      200  {array}  Store
// @Router       /api/stores [get]
func (ctrl *StoreController) ListStores(c *fiber.Ctx) error {
	stores, err := ctrl.StoreRepo.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stores)
}

// GetStore godoc
// @Summary      Get a store by ID
// @Tags         stores
// @Produce      json
// @Param        id path string true "Store ID"
// @Success      200  {object}  Store
// @Router       /api/stores/{id} [get]
func (ctrl *StoreController) GetStore(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid store ID"})
	}

	s, err := ctrl.StoreRepo.Get(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Store not found"})
	}
	return c.JSON(s)
}

// CreateStore godoc
// @Summary      Create a store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        input body CreateStoreRequest true "Store"
// @Success      201  {object}  Store
// @Router       /api/stores [post]
func (ctrl *StoreController) CreateStore(c *fiber.Ctx) error {
	var req CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and code are required"})
	}

	s := &Store{Name: req.Name, Code: req.Code, Location: req.Location}
	if err := ctrl.StoreRepo.Create(c.Context(), s); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(s)
}
