package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"gigdesk/internal/repositories"
	"gigdesk/internal/services/ledger"
	"gigdesk/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	ledger   *ledger.Service
	userRepo repositories.UserRepository
}

func NewAdminHandler(ledgerSvc *ledger.Service, userRepo repositories.UserRepository) *AdminHandler {
	return &AdminHandler{
		ledger:   ledgerSvc,
		userRepo: userRepo,
	}
}

// GetRevenue returns the platform revenue aggregate including the
// monthly and daily buckets.
func (h *AdminHandler) GetRevenue(c *fiber.Ctx) error {
	return utils.Success(c, fiber.Map{"revenue": h.ledger.PlatformRevenue()})
}

// GetAllTransactions returns the full transaction log, newest first.
func (h *AdminHandler) GetAllTransactions(c *fiber.Ctx) error {
	pagination := utils.GetPagination(c, 1, 50)
	txs := h.ledger.AllTransactions()
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

// ExportTransactionsCSV streams the transaction log as CSV.
func (h *AdminHandler) ExportTransactionsCSV(c *fiber.Ctx) error {
	txs := h.ledger.AllTransactions()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "type", "user_id", "amount", "fees", "net_amount", "status", "description", "created_at", "completed_at"}
	if err := w.Write(header); err != nil {
		return utils.InternalError(c, "Failed to export transactions")
	}

	for _, tx := range txs {
		completedAt := ""
		if tx.CompletedAt != nil {
			completedAt = tx.CompletedAt.Format("2006-01-02 15:04:05")
		}
		record := []string{
			tx.ID,
			tx.Type,
			strconv.FormatUint(uint64(tx.UserID), 10),
			fmt.Sprintf("%.2f", tx.Amount),
			fmt.Sprintf("%.2f", tx.Fees),
			fmt.Sprintf("%.2f", tx.NetAmount),
			tx.Status,
			tx.Description,
			tx.CreatedAt.Format("2006-01-02 15:04:05"),
			completedAt,
		}
		if err := w.Write(record); err != nil {
			return utils.InternalError(c, "Failed to export transactions")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return utils.InternalError(c, "Failed to export transactions")
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
	return c.Send(buf.Bytes())
}

// GetUsers returns a paginated user listing.
func (h *AdminHandler) GetUsers(c *fiber.Ctx) error {
	pagination := utils.GetPagination(c, 1, 50)

	users, total, err := h.userRepo.List(pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list users")
	}

	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		out = append(out, fiber.Map{
			"id":            u.ID,
			"email":         u.Email,
			"name":          u.Name,
			"role":          u.Role,
			"status":        u.Status,
			"activated":     u.Activated,
			"premium_until": u.PremiumUntil,
			"created_at":    u.CreatedAt,
		})
	}

	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(out, pagination))
}

// GetUserEarnings returns any user's earnings snapshot and history.
func (h *AdminHandler) GetUserEarnings(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	return utils.Success(c, fiber.Map{
		"earnings":     h.ledger.UserEarnings(uint(userID)),
		"transactions": h.ledger.UserTransactions(uint(userID)),
	})
}
