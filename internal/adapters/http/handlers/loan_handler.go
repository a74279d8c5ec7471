package handlers

import (
	"errors"

	"loanflow-backend/internal/adapters/http/middleware"
	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/core/domain"
	"loanflow-backend/internal/core/services"
	"loanflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan workflow endpoints
type LoanHandler struct {
	workflowService *services.LoanWorkflowService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(workflowService *services.LoanWorkflowService) *LoanHandler {
	return &LoanHandler{workflowService: workflowService}
}

// Submit handles loan application submission
// @Summary Submit loan application
// @Description Create a new loan application in SUBMITTED status
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitLoanInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Submit(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var input services.SubmitLoanInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.ProductID == 0 {
		return response.BadRequest(c, "Product is required")
	}
	if input.Amount <= 0 {
		return response.BadRequest(c, "Amount must be positive")
	}
	if input.TenureMonths <= 0 {
		return response.BadRequest(c, "Tenure must be positive")
	}

	loan, err := h.workflowService.SubmitLoan(c.Context(), actor, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			return response.NotFound(c, "Loan product not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Amount or tenure outside product limits")
		default:
			return response.InternalServerError(c, "Failed to submit loan application")
		}
	}

	return response.Created(c, "Loan application submitted", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// PerformAction handles a workflow action on a loan
// @Summary Perform workflow action
// @Description Apply one workflow action (COMMENT, FORWARD_TO_MANAGER, APPROVE, REJECT, DISBURSE) to a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body services.PerformActionInput true "Action"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/actions [post]
func (h *LoanHandler) PerformAction(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	loanID, err := c.ParamsInt("id")
	if err != nil || loanID < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var input services.PerformActionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Action == "" {
		return response.BadRequest(c, "Action is required")
	}

	loan, err := h.workflowService.PerformAction(c.Context(), actor, uint(loanID), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan application not found")
		case errors.Is(err, domain.ErrInvalidAction):
			return response.ErrorWithCode(c, fiber.StatusBadRequest, "INVALID_ACTION", err.Error())
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.ErrorWithCode(c, fiber.StatusUnprocessableEntity, "INVALID_TRANSITION", err.Error())
		case errors.Is(err, domain.ErrActionForbidden):
			return response.ErrorWithCode(c, fiber.StatusForbidden, "ACTION_FORBIDDEN", err.Error())
		case errors.Is(err, domain.ErrLoanConflict):
			return response.ErrorWithCode(c, fiber.StatusConflict, "LOAN_CONFLICT", "Loan was modified concurrently, please reload")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "A comment is required for this action")
		default:
			return response.InternalServerError(c, "Failed to perform action")
		}
	}

	return response.Success(c, "Action performed", fiber.Map{
		"loan": loan.ToResponse().WithAllowedActions(actor.Roles),
	})
}

// Get handles fetching one loan
// @Summary Get loan application
// @Description Get one loan with the actions the caller may perform on it
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	loanID, err := c.ParamsInt("id")
	if err != nil || loanID < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.workflowService.GetLoan(c.Context(), actor, uint(loanID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan application not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have access to this loan")
		default:
			return response.InternalServerError(c, "Failed to get loan")
		}
	}

	return response.Success(c, "Loan retrieved", fiber.Map{
		"loan": loan.ToResponse().WithAllowedActions(actor.Roles),
	})
}

// AllowedActions lists the workflow actions the caller may perform on a loan
// @Summary List allowed actions
// @Description Actions the caller's roles permit at the loan's current status
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/allowed-actions [get]
func (h *LoanHandler) AllowedActions(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	loanID, err := c.ParamsInt("id")
	if err != nil || loanID < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.workflowService.GetLoan(c.Context(), actor, uint(loanID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan application not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have access to this loan")
		default:
			return response.InternalServerError(c, "Failed to get loan")
		}
	}

	resp := loan.ToResponse().WithAllowedActions(actor.Roles)
	return response.Success(c, "Allowed actions retrieved", fiber.Map{
		"loan_id":         resp.ID,
		"current_status":  resp.CurrentStatus,
		"allowed_actions": resp.AllowedActions,
	})
}

// MyLoans handles listing the caller's loans
// @Summary List own loan applications
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/my [get]
func (h *LoanHandler) MyLoans(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	loans, err := h.workflowService.MyLoans(c.Context(), actor)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	responses := make([]*models.LoanApplicationResponse, len(loans))
	for i, loan := range loans {
		responses[i] = loan.ToResponse()
	}

	return response.Success(c, "Loans retrieved", fiber.Map{
		"loans": responses,
	})
}

// Queue handles the staff work queue
// @Summary Staff work queue
// @Description List the loans waiting on the caller's staff roles, oldest first
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans/queue [get]
func (h *LoanHandler) Queue(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	output, err := h.workflowService.Queue(c.Context(), actor, page, limit)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "No work queue for your roles")
		}
		return response.InternalServerError(c, "Failed to list queue")
	}

	responses := make([]*models.LoanApplicationResponse, len(output.Loans))
	for i, loan := range output.Loans {
		responses[i] = loan.ToResponse().WithAllowedActions(actor.Roles)
	}

	return response.Success(c, "Queue retrieved", fiber.Map{
		"loans":       responses,
		"total":       output.Total,
		"page":        output.Page,
		"limit":       output.Limit,
		"total_pages": output.TotalPages,
	})
}

// History handles a loan's audit trail
// @Summary Loan history
// @Description List a loan's history rows, newest first
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/history [get]
func (h *LoanHandler) History(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	loanID, err := c.ParamsInt("id")
	if err != nil || loanID < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	history, err := h.workflowService.History(c.Context(), actor, uint(loanID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan application not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have access to this loan")
		default:
			return response.InternalServerError(c, "Failed to get history")
		}
	}

	return response.Success(c, "History retrieved", fiber.Map{
		"history": history,
	})
}

// CompletePayment handles the external payment completion trigger
// @Summary Complete loan payment
// @Description Mark a disbursed loan fully repaid, moving it to PAID
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /loans/{id}/payment [post]
func (h *LoanHandler) CompletePayment(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	loanID, err := c.ParamsInt("id")
	if err != nil || loanID < 1 {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.workflowService.CompletePayment(c.Context(), actor, uint(loanID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLoanNotFound):
			return response.NotFound(c, "Loan application not found")
		case errors.Is(err, domain.ErrLoanNotDisbursed):
			return response.UnprocessableEntity(c, "Loan is not in DISBURSED status")
		case errors.Is(err, domain.ErrLoanConflict):
			return response.ErrorWithCode(c, fiber.StatusConflict, "LOAN_CONFLICT", "Loan was modified concurrently, please reload")
		default:
			return response.InternalServerError(c, "Failed to complete payment")
		}
	}

	return response.Success(c, "Payment completed", fiber.Map{
		"loan": loan.ToResponse(),
	})
}

// ActivityReport handles a staff member's own activity report
// @Summary Activity report
// @Description List the history rows the caller wrote, optionally for one month
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month (1-12)"
// @Param year query int false "Year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /loans/reports/activity [get]
func (h *LoanHandler) ActivityReport(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	month := c.QueryInt("month", 0)
	year := c.QueryInt("year", 0)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	rows, total, err := h.workflowService.ActivityReport(c.Context(), actor.UserID, month, year, page, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to build report")
	}

	return response.Success(c, "Report retrieved", fiber.Map{
		"entries": rows,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
