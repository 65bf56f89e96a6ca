package system

import (
	"context"
	"time"

	"chainsync/internal/common/api"
	"chainsync/internal/database"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct {
	db *database.MongodbDB
}

func NewHealthApi(db *database.MongodbDB) api.Route {
	return &HealthApi{db: db}
}

// Health godoc
// @Summary      Service health
// @Description  Reports process liveness and database reachability
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthApi) health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.db.DB.Client().Ping(pingCtx, nil); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"database": "unreachable",
		})
	}

	return ctx.JSON(fiber.Map{
		"status":   "ok",
		"database": "ok",
	})
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.health)
}
