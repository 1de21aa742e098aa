package handlers

import (
	"errors"
	"strconv"

	"gigdesk/internal/models"
	"gigdesk/internal/repositories"
	"gigdesk/internal/services/application"
	"gigdesk/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ApplicationHandler struct {
	appService application.Service
}

func NewApplicationHandler(appService application.Service) *ApplicationHandler {
	return &ApplicationHandler{
		appService: appService,
	}
}

// Apply submits a worker's application for a job.
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	jobID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid job id")
	}

	var input struct {
		Message string `json:"message"`
	}
	// The body is optional; an empty message is fine
	_ = c.BodyParser(&input)

	app, err := h.appService.Apply(c.Context(), claims.UserID, uint(jobID), input.Message)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrAccountNotActivated):
			return utils.Forbidden(c, err.Error())
		case errors.Is(err, application.ErrAlreadyApplied):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, application.ErrJobNotOpen):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, repositories.ErrJobNotFound):
			return utils.NotFound(c, "Job not found")
		default:
			return utils.InternalError(c, "Failed to apply")
		}
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"application": app})
}

// ListForJob returns an employer's view of a job's applications.
func (h *ApplicationHandler) ListForJob(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	jobID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid job id")
	}

	apps, err := h.appService.ListForJob(claims.UserID, uint(jobID))
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrJobNotFound):
			return utils.NotFound(c, "Job not found")
		case errors.Is(err, application.ErrNotJobOwner):
			return utils.Forbidden(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to list applications")
		}
	}

	return utils.Success(c, fiber.Map{"applications": apps})
}

// ListMine returns the authenticated worker's applications.
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	pagination := utils.GetPagination(c, 1, 20)
	apps, total, err := h.appService.ListForWorker(claims.UserID, pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list applications")
	}

	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(apps, pagination))
}

// Accept approves an application.
func (h *ApplicationHandler) Accept(c *fiber.Ctx) error {
	return h.transition(c, func(claims *models.UserClaims, appID uint) (interface{}, error) {
		app, err := h.appService.Accept(c.Context(), claims.UserID, appID)
		return fiber.Map{"application": app}, err
	})
}

// Reject declines an application.
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, func(claims *models.UserClaims, appID uint) (interface{}, error) {
		app, err := h.appService.Reject(c.Context(), claims.UserID, appID)
		return fiber.Map{"application": app}, err
	})
}

// Complete marks accepted work done and pays the worker.
func (h *ApplicationHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, func(claims *models.UserClaims, appID uint) (interface{}, error) {
		app, result, err := h.appService.Complete(c.Context(), claims.UserID, appID)
		if err != nil {
			return nil, err
		}
		return fiber.Map{
			"application": app,
			"payment": fiber.Map{
				"transaction_id": result.Transaction.ID,
				"worker_net":     result.WorkerNet,
				"platform_fee":   result.PlatformFee,
			},
		}, nil
	})
}

func (h *ApplicationHandler) transition(c *fiber.Ctx, fn func(*models.UserClaims, uint) (interface{}, error)) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	appID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid application id")
	}

	out, err := fn(claims, uint(appID))
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrApplicationNotFound):
			return utils.NotFound(c, "Application not found")
		case errors.Is(err, application.ErrNotJobOwner):
			return utils.Forbidden(c, err.Error())
		case errors.Is(err, application.ErrInvalidTransition), errors.Is(err, application.ErrJobFull):
			return utils.Conflict(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to update application")
		}
	}

	return utils.Success(c, out)
}
