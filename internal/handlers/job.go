package handlers

import (
	"errors"
	"strconv"

	"gigdesk/internal/models"
	"gigdesk/internal/repositories"
	"gigdesk/internal/services/job"
	"gigdesk/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	jobService job.Service
}

func NewJobHandler(jobService job.Service) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// QuotePosting prices a posting without publishing it.
func (h *JobHandler) QuotePosting(c *fiber.Ctx) error {
	var input models.CreateJobInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	costs, err := h.jobService.QuotePosting(input)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}

	return utils.Success(c, fiber.Map{"quote": costs})
}

// PostJob publishes a job and charges the posting cost.
func (h *JobHandler) PostJob(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	var input models.CreateJobInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	posted, tx, err := h.jobService.PostJob(c.Context(), claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, job.ErrTitleRequired),
			errors.Is(err, job.ErrInvalidPayAmount),
			errors.Is(err, job.ErrInvalidMaxWorkers):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to post job")
		}
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"job":         posted,
		"transaction": tx,
	})
}

// GetJob returns a single job by id.
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid job id")
	}

	found, err := h.jobService.GetJob(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return utils.NotFound(c, "Job not found")
		}
		return utils.InternalError(c, "Failed to get job")
	}

	return utils.Success(c, fiber.Map{"job": found})
}

// ListJobs returns a filtered, paginated job listing.
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	pagination := utils.GetPagination(c, 1, 20)

	filter := repositories.JobFilter{
		Category:     c.Query("category"),
		FeaturedOnly: c.QueryBool("featured"),
		Status:       c.Query("status", models.JobStatusOpen),
	}

	jobs, total, err := h.jobService.ListJobs(c.Context(), filter, pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list jobs")
	}

	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(jobs, pagination))
}

// ListMyJobs returns the authenticated employer's own postings.
func (h *JobHandler) ListMyJobs(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	pagination := utils.GetPagination(c, 1, 20)
	filter := repositories.JobFilter{
		EmployerID: claims.UserID,
		Status:     c.Query("status"),
	}

	jobs, total, err := h.jobService.ListJobs(c.Context(), filter, pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to list jobs")
	}

	pagination.SetTotal(total)
	return utils.Success(c, utils.NewPaginatedResponse(jobs, pagination))
}

// CloseJob takes a job off the board.
func (h *JobHandler) CloseJob(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return utils.Unauthorized(c, "Invalid claims")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid job id")
	}

	if err := h.jobService.CloseJob(c.Context(), claims.UserID, uint(id)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrJobNotFound):
			return utils.NotFound(c, "Job not found")
		case errors.Is(err, job.ErrNotJobOwner):
			return utils.Forbidden(c, err.Error())
		default:
			return utils.InternalError(c, "Failed to close job")
		}
	}

	return utils.Success(c, fiber.Map{"message": "Job closed"})
}
