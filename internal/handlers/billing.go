package handlers

import (
	"errors"
	"strconv"

	"gigdesk/internal/models"
	"gigdesk/internal/services/billing"
	"gigdesk/internal/services/card"
	"gigdesk/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type BillingHandler struct {
	cardService    card.Service
	billingService billing.Service
}

func NewBillingHandler(cardService card.Service, billingService billing.Service) *BillingHandler {
	return &BillingHandler{
		cardService:    cardService,
		billingService: billingService,
	}
}

// LinkCard tokenizes and stores a payment card.
func (h *BillingHandler) LinkCard(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input models.CreateCardInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	linked, err := h.cardService.LinkCard(claims.UserID, input)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"card": fiber.Map{
			"id":        linked.ID,
			"card_type": linked.CardType,
			"last_four": linked.LastFour,
			"status":    linked.Status,
		},
	})
}

// ListCards returns the user's stored cards.
func (h *BillingHandler) ListCards(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	cards, err := h.cardService.ListCards(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list cards")
	}

	out := make([]fiber.Map, 0, len(cards))
	for _, pc := range cards {
		out = append(out, fiber.Map{
			"id":        pc.ID,
			"card_type": pc.CardType,
			"last_four": pc.LastFour,
			"status":    pc.Status,
		})
	}
	return utils.Success(c, fiber.Map{"cards": out})
}

// RemoveCard deletes a stored card.
func (h *BillingHandler) RemoveCard(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	cardID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid card id")
	}

	if err := h.cardService.RemoveCard(claims.UserID, uint(cardID)); err != nil {
		switch {
		case errors.Is(err, card.ErrCardNotFound):
			return utils.NotFound(c, "Card not found")
		case errors.Is(err, card.ErrCardNotBelongToUser):
			return utils.Forbidden(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to remove card")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Card removed"})
}

// ActivateAccount charges the activation fee and unlocks the account.
func (h *BillingHandler) ActivateAccount(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		CardID uint `json:"card_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	tx, err := h.billingService.ActivateAccount(c.Context(), claims.UserID, input.CardID)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrAlreadyActivated):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, card.ErrCardNotFound):
			return utils.NotFound(c, "Card not found")
		case errors.Is(err, card.ErrCardNotActive), errors.Is(err, card.ErrCardNotBelongToUser):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to activate account")
		}
	}

	return utils.Success(c, fiber.Map{
		"message":     "Account activated",
		"transaction": tx,
	})
}

// RenewSubscription extends the user's premium period by a month.
func (h *BillingHandler) RenewSubscription(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	tx, err := h.billingService.RenewSubscription(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, billing.ErrNoActiveCard) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "Failed to renew subscription")
	}

	return utils.Success(c, fiber.Map{"transaction": tx})
}
