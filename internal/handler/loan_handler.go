package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lendbook/lendbook-backend/internal/domain"
	"github.com/lendbook/lendbook-backend/internal/middleware"
	"github.com/lendbook/lendbook-backend/internal/service"
	"github.com/lendbook/lendbook-backend/internal/util"
	"github.com/rs/zerolog/log"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the create loan request body
type CreateLoanRequest struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
	Terms        int32  `json:"terms"`
	ProcessedAt  string `json:"processedAt"`
}

// RepayLoanRequest represents the repay loan request body
type RepayLoanRequest struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
	ReceivedAt   string `json:"receivedAt"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID                   int64  `json:"id"`
	Amount               int64  `json:"amount"`
	FormattedAmount      string `json:"formattedAmount"`
	OutstandingAmount    int64  `json:"outstandingAmount"`
	FormattedOutstanding string `json:"formattedOutstanding"`
	CurrencyCode         string `json:"currencyCode"`
	Terms                int32  `json:"terms"`
	Status               string `json:"status"`
	ProcessedAt          string `json:"processedAt"`
	CreatedAt            string `json:"createdAt"`
	UpdatedAt            string `json:"updatedAt"`
}

// ScheduledRepaymentResponse represents an installment in API responses
type ScheduledRepaymentResponse struct {
	ID                int64  `json:"id"`
	LoanID            int64  `json:"loanId"`
	Amount            int64  `json:"amount"`
	FormattedAmount   string `json:"formattedAmount"`
	OutstandingAmount int64  `json:"outstandingAmount"`
	CurrencyCode      string `json:"currencyCode"`
	DueDate           string `json:"dueDate"`
	Status            string `json:"status"`
}

// ReceivedRepaymentResponse represents a received payment in API responses
type ReceivedRepaymentResponse struct {
	ID              int64  `json:"id"`
	LoanID          int64  `json:"loanId"`
	Amount          int64  `json:"amount"`
	FormattedAmount string `json:"formattedAmount"`
	CurrencyCode    string `json:"currencyCode"`
	ReceivedAt      string `json:"receivedAt"`
	CreatedAt       string `json:"createdAt"`
}

// CreateLoanResponse pairs a created loan with its schedule
type CreateLoanResponse struct {
	Loan     LoanResponse                 `json:"loan"`
	Schedule []ScheduledRepaymentResponse `json:"schedule"`
}

// RepayLoanResponse pairs the updated loan with the recorded payment
type RepayLoanResponse struct {
	Loan              LoanResponse              `json:"loan"`
	ReceivedRepayment ReceivedRepaymentResponse `json:"receivedRepayment"`
}

func toLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:                   loan.ID,
		Amount:               loan.Amount,
		FormattedAmount:      util.FormatAmount(loan.Amount, loan.CurrencyCode),
		OutstandingAmount:    loan.OutstandingAmount,
		FormattedOutstanding: util.FormatAmount(loan.OutstandingAmount, loan.CurrencyCode),
		CurrencyCode:         loan.CurrencyCode,
		Terms:                loan.Terms,
		Status:               string(loan.Status),
		ProcessedAt:          loan.ProcessedAt.Format(util.DateLayout),
		CreatedAt:            loan.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            loan.UpdatedAt.Format(time.RFC3339),
	}
}

func toScheduledRepaymentResponse(sr *domain.ScheduledRepayment) ScheduledRepaymentResponse {
	return ScheduledRepaymentResponse{
		ID:                sr.ID,
		LoanID:            sr.LoanID,
		Amount:            sr.Amount,
		FormattedAmount:   util.FormatAmount(sr.Amount, sr.CurrencyCode),
		OutstandingAmount: sr.OutstandingAmount,
		CurrencyCode:      sr.CurrencyCode,
		DueDate:           sr.DueDate.Format(util.DateLayout),
		Status:            string(sr.Status),
	}
}

func toReceivedRepaymentResponse(rr *domain.ReceivedRepayment) ReceivedRepaymentResponse {
	return ReceivedRepaymentResponse{
		ID:              rr.ID,
		LoanID:          rr.LoanID,
		Amount:          rr.Amount,
		FormattedAmount: util.FormatAmount(rr.Amount, rr.CurrencyCode),
		CurrencyCode:    rr.CurrencyCode,
		ReceivedAt:      rr.ReceivedAt.Format(util.DateLayout),
		CreatedAt:       rr.CreatedAt.Format(time.RFC3339),
	}
}

func toScheduleResponse(schedule []*domain.ScheduledRepayment) []ScheduledRepaymentResponse {
	responses := make([]ScheduledRepaymentResponse, 0, len(schedule))
	for _, sr := range schedule {
		responses = append(responses, toScheduledRepaymentResponse(sr))
	}
	return responses
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	processedAt, err := util.ParseDate(req.ProcessedAt)
	if err != nil {
		return NewValidationError(c, "Invalid processed date", []ValidationError{
			{Field: "processedAt", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	loan, schedule, err := h.loanService.CreateLoan(userID, service.CreateLoanInput{
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		Terms:        req.Terms,
		ProcessedAt:  processedAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoanAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrLoanTermsInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "terms", Message: "Number of terms must be at least 1"},
			})
		}
		if errors.Is(err, domain.ErrCurrencyUnsupported) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "currencyCode", Message: "Currency is not supported"},
			})
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to create loan")
		return NewInternalError(c, "Failed to create loan")
	}

	log.Info().
		Str("user_id", userID.String()).
		Int64("loan_id", loan.ID).
		Int64("amount", loan.Amount).
		Int32("terms", loan.Terms).
		Msg("Loan created")

	return c.JSON(http.StatusCreated, CreateLoanResponse{
		Loan:     toLoanResponse(loan),
		Schedule: toScheduleResponse(schedule),
	})
}

// GetLoans handles GET /api/v1/loans
func (h *LoanHandler) GetLoans(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	loans, err := h.loanService.GetLoansByUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to list loans")
		return NewInternalError(c, "Failed to list loans")
	}

	responses := make([]LoanResponse, 0, len(loans))
	for _, loan := range loans {
		responses = append(responses, toLoanResponse(loan))
	}
	return c.JSON(http.StatusOK, responses)
}

// GetLoan handles GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	loanID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	loan, err := h.loanService.GetLoan(userID, loanID)
	if err != nil {
		return h.mapLoanError(c, err, loanID)
	}

	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// GetSchedule handles GET /api/v1/loans/:id/scheduled-repayments
func (h *LoanHandler) GetSchedule(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	loanID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	schedule, err := h.loanService.GetSchedule(userID, loanID)
	if err != nil {
		return h.mapLoanError(c, err, loanID)
	}

	return c.JSON(http.StatusOK, toScheduleResponse(schedule))
}

// RepayLoan handles POST /api/v1/loans/:id/repayments
func (h *LoanHandler) RepayLoan(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	loanID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	var req RepayLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != "" {
		receivedAt, err = util.ParseDate(req.ReceivedAt)
		if err != nil {
			return NewValidationError(c, "Invalid received date", []ValidationError{
				{Field: "receivedAt", Message: "Must be in YYYY-MM-DD format"},
			})
		}
	}

	loan, received, err := h.loanService.RepayLoan(userID, loanID, service.RepayLoanInput{
		Amount:       req.Amount,
		CurrencyCode: req.CurrencyCode,
		ReceivedAt:   receivedAt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRepaymentAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrCurrencyUnsupported) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "currencyCode", Message: "Currency is not supported"},
			})
		}
		if errors.Is(err, domain.ErrCurrencyMismatch) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "currencyCode", Message: "Payment currency must match the loan currency"},
			})
		}
		return h.mapLoanError(c, err, loanID)
	}

	log.Info().
		Str("user_id", userID.String()).
		Int64("loan_id", loanID).
		Int64("amount", req.Amount).
		Str("status", string(loan.Status)).
		Msg("Repayment recorded")

	return c.JSON(http.StatusCreated, RepayLoanResponse{
		Loan:              toLoanResponse(loan),
		ReceivedRepayment: toReceivedRepaymentResponse(received),
	})
}

// GetReceivedRepayments handles GET /api/v1/loans/:id/repayments
func (h *LoanHandler) GetReceivedRepayments(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	loanID, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	repayments, err := h.loanService.GetReceivedRepayments(userID, loanID)
	if err != nil {
		return h.mapLoanError(c, err, loanID)
	}

	responses := make([]ReceivedRepaymentResponse, 0, len(repayments))
	for _, rr := range repayments {
		responses = append(responses, toReceivedRepaymentResponse(rr))
	}
	return c.JSON(http.StatusOK, responses)
}

func (h *LoanHandler) mapLoanError(c echo.Context, err error, loanID int64) error {
	if errors.Is(err, domain.ErrLoanNotFound) {
		return NewNotFoundError(c, "Loan not found")
	}
	if errors.Is(err, domain.ErrLoanNotOwned) {
		return NewForbiddenError(c, "Loan does not belong to this user")
	}
	log.Error().Err(err).Int64("loan_id", loanID).Msg("Loan operation failed")
	return NewInternalError(c, "Loan operation failed")
}

func parseIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
