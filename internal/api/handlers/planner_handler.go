package handlers

import (
	"time"

	"tastebook/domain"
	"tastebook/internal/api/presenters"
	"tastebook/pkg/planner"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PlannerHandler interface {
		AddToPlan(c *fiber.Ctx) error
		RemoveFromPlan(c *fiber.Ctx) error
		GetPlan(c *fiber.Ctx) error
		GetEvents(c *fiber.Ctx) error
		GetIngredients(c *fiber.Ctx) error
	}

	plannerHandler struct {
		plannerService planner.PlannerService
		validator      *validator.Validate
	}
)

func NewPlannerHandler(plannerService planner.PlannerService, validator *validator.Validate) PlannerHandler {
	return &plannerHandler{
		plannerService: plannerService,
		validator:      validator,
	}
}

func (h *plannerHandler) AddToPlan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddToPlanRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddToPlan, err)
	}

	res, err := h.plannerService.AddToPlan(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddToPlan, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAddToPlan)
}

func (h *plannerHandler) RemoveFromPlan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	mealID := c.Params("id")

	if err := h.plannerService.RemoveFromPlan(c.Context(), userID, mealID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRemoveFromPlan, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveFromPlan)
}

// GetPlan defaults to the current week when no range is given.
func (h *plannerHandler) GetPlan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	start := c.Query("start", "")
	end := c.Query("end", "")
	if start == "" || end == "" {
		now := time.Now()
		start = now.Format(domain.DateLayout)
		end = now.AddDate(0, 0, 6).Format(domain.DateLayout)
	}

	res, err := h.plannerService.RangeView(c.Context(), userID, start, end)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetPlan, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPlan)
}

func (h *plannerHandler) GetEvents(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.plannerService.Events(c.Context(), userID, c.Query("start", ""), c.Query("end", ""))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetEvents, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetEvents)
}

func (h *plannerHandler) GetIngredients(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.plannerService.IngredientsAggregate(c.Context(), userID, c.Query("start", ""), c.Query("end", ""))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAggregate, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"ingredients": res}, fiber.StatusOK, domain.MessageSuccessGetAggregate)
}
