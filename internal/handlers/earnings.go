package handlers

import (
	"errors"
	"strconv"

	"gigdesk/internal/models"
	"gigdesk/internal/services/ledger"
	"gigdesk/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type EarningsHandler struct {
	ledger *ledger.Service
}

func NewEarningsHandler(ledgerSvc *ledger.Service) *EarningsHandler {
	return &EarningsHandler{
		ledger: ledgerSvc,
	}
}

// GetMyEarnings returns the authenticated user's earnings snapshot.
func (h *EarningsHandler) GetMyEarnings(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	earnings := h.ledger.UserEarnings(claims.UserID)
	return utils.Success(c, fiber.Map{"earnings": earnings})
}

// GetMyTransactions returns the user's transaction history, newest first.
func (h *EarningsHandler) GetMyTransactions(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	pagination := utils.GetPagination(c, 1, 20)
	txs := h.ledger.UserTransactions(claims.UserID)
	pagination.SetTotal(int64(len(txs)))

	start := pagination.Offset
	if start > len(txs) {
		start = len(txs)
	}
	end := start + pagination.Limit
	if end > len(txs) {
		end = len(txs)
	}

	return utils.Success(c, utils.NewPaginatedResponse(txs[start:end], pagination))
}

// QuoteWithdrawal prices a withdrawal without executing it.
func (h *EarningsHandler) QuoteWithdrawal(c *fiber.Ctx) error {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount <= 0 {
		return utils.BadRequest(c, "A positive amount query parameter is required")
	}

	quote := h.ledger.CalculateWithdrawalFees(amount)
	return utils.Success(c, fiber.Map{"quote": quote})
}

// Withdraw debits the user's balance and schedules settlement.
func (h *EarningsHandler) Withdraw(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Amount <= 0 {
		return utils.BadRequest(c, "Amount must be positive")
	}
	if input.Method == "" {
		input.Method = "bank_transfer"
	}

	tx, err := h.ledger.ProcessWithdrawal(c.Context(), claims.UserID, input.Amount, input.Method)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientBalance):
			return utils.BadRequest(c, "Insufficient balance")
		case errors.Is(err, ledger.ErrBelowMinimumWithdrawal),
			errors.Is(err, ledger.ErrAmountTooSmall):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to process withdrawal")
		}
	}

	return utils.Respond(c, fiber.StatusAccepted, fiber.Map{"transaction": tx})
}

// GetTransaction returns one of the user's transactions by id.
func (h *EarningsHandler) GetTransaction(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	tx, err := h.ledger.GetTransaction(c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Transaction not found")
	}
	if tx.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		return utils.NotFound(c, "Transaction not found")
	}

	return utils.Success(c, fiber.Map{"transaction": tx})
}

// GetFees exposes the platform fee structure.
func (h *EarningsHandler) GetFees(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"fees": h.ledger.FeeStructure()})
}
