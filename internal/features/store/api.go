package store

import (
	"chainsync/internal/config"
	"chainsync/internal/features/role"
	"chainsync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type StoreApi struct {
	StoreController *StoreController
	Config          *config.Config
	RoleService     role.RoleService
}

func NewStoreApi(storeController *StoreController, config *config.Config, roleService role.RoleService) *StoreApi {
	return &StoreApi{
		StoreController: storeController,
		Config:          config,
		RoleService:     roleService,
	}
}

func (api *StoreApi) Setup(app *fiber.App) {
	group := app.Group("/api/stores", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/", api.StoreController.ListStores)
	group.Get("/:id", api.StoreController.GetStore)
	group.Post("/", middleware.RequirePermission(api.RoleService, api.Config.SkipAuth, role.PermStoreManage), api.StoreController.CreateStore)
}
