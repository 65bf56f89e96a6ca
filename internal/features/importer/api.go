package importer

import (
	"chainsync/internal/config"
	"chainsync/internal/features/role"
	"chainsync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ImportApi struct {
	ImportController *ImportController
	Config           *config.Config
	RoleService      role.RoleService
}

func NewImportApi(importController *ImportController, config *config.Config, roleService role.RoleService) *ImportApi {
	return &ImportApi{
		ImportController: importController,
		Config:           config,
		RoleService:      roleService,
	}
}

func (api *ImportApi) Setup(app *fiber.App) {
	group := app.Group("/api/import",
		middleware.AuthMiddleware(api.Config.SkipAuth),
		middleware.RequirePermission(api.RoleService, api.Config.SkipAuth, role.PermImportExecute),
	)

	group.Post("/sessions", api.ImportController.CreateSession)
	group.Get("/sessions/:id", api.ImportController.GetSession)
	group.Get("/sessions/:id/mapping", api.ImportController.GetMapping)
	group.Put("/sessions/:id/mapping", api.ImportController.UpdateMapping)
	group.Post("/sessions/:id/validate", api.ImportController.Validate)
	group.Post("/sessions/:id/import", api.ImportController.Execute)
	group.Post("/sessions/:id/back", api.ImportController.Back)
	group.Post("/sessions/:id/reset", api.ImportController.Reset)
	group.Get("/sessions/:id/error-report", api.ImportController.ErrorReport)
}
