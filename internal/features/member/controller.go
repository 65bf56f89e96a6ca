package member

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type MemberController struct {
	MemberRepo MemberRepository
}

func NewMemberController(memberRepo MemberRepository) *MemberController {
	return &MemberController{MemberRepo: memberRepo}
}

// ListMembers godoc
// @Summary      List loyalty members
// @Tags         members
// @Produce      json
// @Param        limit query int false "Page size"
// @Param        offset query int false "Offset"
// @Success      200  {array}  Member
// @Router       /api/members [get]
func (ctrl *MemberController) ListMembers(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	offset, _ := strconv.ParseInt(c.Query("offset", "0"), 10, 64)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	members, err := ctrl.MemberRepo.List(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(members)
}
