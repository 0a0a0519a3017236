package handlers

import (
	"context"
	"net/http"
	"strings"

	"pay2u/internal/common"
	"pay2u/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReportService computes the user's spend, cashback, amounts due and main page summary
type ReportService interface {
	Expenses(ctx context.Context, userID uuid.UUID, filter *models.SubscriptionSearchFilter) (*models.Report, error)
	Cashback(ctx context.Context, userID uuid.UUID, filter *models.SubscriptionSearchFilter) (*models.Report, error)
	Due(ctx context.Context, userID uuid.UUID, month string, filter *models.SubscriptionSearchFilter) (*models.Report, error)
	Summary(ctx context.Context, userID uuid.UUID) (*models.Summary, error)
}

type ReportHandlers struct {
	reports ReportService
}

func NewReportHandlers(reports ReportService) *ReportHandlers {
	return &ReportHandlers{reports: reports}
}

// Expenses handles GET /v1/user/expenses?start_date=&end_date=&category=
func (h *ReportHandlers) Expenses(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	filter, err := parseReportFilter(c)
	if err != nil {
		return common.SendError(c, err)
	}

	report, err := h.reports.Expenses(c.Request().Context(), userID, filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total_expenses": report.Total,
		"count":          report.Count,
		"subscriptions":  report.Subscriptions,
	})
}

// Cashback handles GET /v1/user/cashback with the same filters as Expenses
func (h *ReportHandlers) Cashback(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	filter, err := parseReportFilter(c)
	if err != nil {
		return common.SendError(c, err)
	}

	report, err := h.reports.Cashback(c.Request().Context(), userID, filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total_cashback": report.Total,
		"count":          report.Count,
		"subscriptions":  report.Subscriptions,
	})
}

// Paids handles GET /v1/user/paids?month=YYYY-MM, the amount renewing that month
func (h *ReportHandlers) Paids(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	filter, err := parseReportFilter(c)
	if err != nil {
		return common.SendError(c, err)
	}
	month := strings.TrimSpace(c.QueryParam("month"))

	report, err := h.reports.Due(c.Request().Context(), userID, month, filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"month":         report.Month,
		"total_due":     report.Total,
		"count":         report.Count,
		"subscriptions": report.Subscriptions,
	})
}

// Main handles GET /v1/main
func (h *ReportHandlers) Main(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	summary, err := h.reports.Summary(c.Request().Context(), userID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func parseReportFilter(c echo.Context) (*models.SubscriptionSearchFilter, error) {
	from, err := common.ParseOptionalDate(c.QueryParam("start_date"), "start_date")
	if err != nil {
		return nil, err
	}
	to, err := common.ParseOptionalDate(c.QueryParam("end_date"), "end_date")
	if err != nil {
		return nil, err
	}
	if err := common.ValidateDateRange(from, to); err != nil {
		return nil, err
	}

	return &models.SubscriptionSearchFilter{
		StartDateFrom: from,
		StartDateTo:   to,
		CategoryName:  strings.TrimSpace(c.QueryParam("category")),
	}, nil
}
