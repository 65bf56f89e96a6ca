package member

import (
	"chainsync/internal/config"
	"chainsync/internal/features/role"
	"chainsync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type MemberApi struct {
	MemberController *MemberController
	Config           *config.Config
	RoleService      role.RoleService
}

func NewMemberApi(memberController *MemberController, config *config.Config, roleService role.RoleService) *MemberApi {
	return &MemberApi{
		MemberController: memberController,
		Config:           config,
		RoleService:      roleService,
	}
}

func (api *MemberApi) Setup(app *fiber.App) {
	group := app.Group("/api/members",
		middleware.AuthMiddleware(api.Config.SkipAuth),
		middleware.RequirePermission(api.RoleService, api.Config.SkipAuth, role.PermMemberRead),
	)

	group.Get("/", api.MemberController.ListMembers)
}
