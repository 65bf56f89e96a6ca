package auth

import (
	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	AuthController *AuthController
}

func NewAuthApi(authController *AuthController) *AuthApi {
	return &AuthApi{
		AuthController: authController,
	}
}

func (api *AuthApi) Setup(app *fiber.App) {
	group := app.Group("/api/auth")

	group.Post("/register", api.AuthController.Register)
	group.Post("/login", api.AuthController.Login)
}
