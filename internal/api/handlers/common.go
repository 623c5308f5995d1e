package handlers

import (
	"strconv"

	"tastebook/pkg/recipe"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ViewerFromCtx maps the middleware locals onto a visibility viewer. Requests
// without a valid token resolve to the anonymous viewer.
func ViewerFromCtx(c *fiber.Ctx) recipe.Viewer {
	userID, ok := c.Locals("user_id").(string)
	if !ok {
		return recipe.AnonymousViewer()
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return recipe.AnonymousViewer()
	}
	isStaff, _ := c.Locals("is_staff").(bool)
	return recipe.ViewerFromID(parsed, isStaff)
}

// viewerKey identifies the caller for view-window deduplication: the user ID
// when signed in, the client IP otherwise.
func viewerKey(c *fiber.Ctx) string {
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		return userID
	}
	return c.IP()
}

func isStaffFromCtx(c *fiber.Ctx) bool {
	isStaff, _ := c.Locals("is_staff").(bool)
	return isStaff
}

func paginationParams(c *fiber.Ctx) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	return page, limit
}
