package catalog

import (
	"chainsync/internal/config"
	"chainsync/internal/features/role"
	"chainsync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CatalogApi struct {
	CatalogController *CatalogController
	Config            *config.Config
	RoleService       role.RoleService
}

func NewCatalogApi(catalogController *CatalogController, config *config.Config, roleService role.RoleService) *CatalogApi {
	return &CatalogApi{
		CatalogController: catalogController,
		Config:            config,
		RoleService:       roleService,
	}
}

func (api *CatalogApi) Setup(app *fiber.App) {
	group := app.Group("/api/catalog",
		middleware.AuthMiddleware(api.Config.SkipAuth),
		middleware.RequirePermission(api.RoleService, api.Config.SkipAuth, role.PermCatalogRead),
	)

	group.Get("/products", api.CatalogController.ListProducts)
	group.Get("/categories", api.CatalogController.ListCategories)
	group.Get("/stores/:storeId/inventory", api.CatalogController.StoreInventory)
}
