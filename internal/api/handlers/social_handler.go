package handlers

import (
	"tastebook/domain"
	"tastebook/internal/api/presenters"
	"tastebook/pkg/social"

	"github.com/gofiber/fiber/v2"
)

type (
	SocialHandler interface {
		Follow(c *fiber.Ctx) error
		Unfollow(c *fiber.Ctx) error
		CancelRequest(c *fiber.Ctx) error
		GetRequests(c *fiber.Ctx) error
		AcceptRequest(c *fiber.Ctx) error
		RejectRequest(c *fiber.Ctx) error
	}

	socialHandler struct {
		socialService social.SocialService
	}
)

func NewSocialHandler(socialService social.SocialService) SocialHandler {
	return &socialHandler{socialService: socialService}
}

func (h *socialHandler) Follow(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	targetID := c.Params("id")

	res, err := h.socialService.Follow(c.Context(), userID, targetID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedFollow, err)
	}

	message := domain.MessageSuccessFollow
	if res.Outcome == domain.FollowOutcomeRequestSent {
		message = domain.MessageSuccessRequestSent
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, message)
}

func (h *socialHandler) Unfollow(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	targetID := c.Params("id")

	if err := h.socialService.Unfollow(c.Context(), userID, targetID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUnfollow, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUnfollow)
}

func (h *socialHandler) CancelRequest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	targetID := c.Params("id")

	if err := h.socialService.CancelRequest(c.Context(), userID, targetID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCancelRequest, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCancelRequest)
}

func (h *socialHandler) GetRequests(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.socialService.GetRequests(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRequests, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRequests)
}

func (h *socialHandler) AcceptRequest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	requestID := c.Params("id")

	if err := h.socialService.AcceptRequest(c.Context(), userID, requestID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAcceptRequest, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessAcceptRequest)
}

func (h *socialHandler) RejectRequest(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	requestID := c.Params("id")

	if err := h.socialService.RejectRequest(c.Context(), userID, requestID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRejectRequest, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRejectRequest)
}
