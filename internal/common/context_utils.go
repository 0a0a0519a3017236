package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
)

const (
	// DateLayout is the query-string date format for report filters
	DateLayout = "2006-01-02"
	// DateTimeLayout is the accepted subscription start_date format
	DateTimeLayout = "2006-01-02T15:04:05"
	// MonthLayout selects a billing month for the amounts-due report
	MonthLayout = "2006-01"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse(string(KindInvalidInput), "Validation failed", details))
}

// SendError renders err with the status and code of its kind
func SendError(c echo.Context, err error) error {
	kind := KindOf(err)
	return c.JSON(HTTPStatus(kind), CreateErrorResponse(string(kind), MessageOf(err), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// ValidateUUID validates UUID format
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewError(KindInvalidInput, "%s is required", fieldName)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewError(KindInvalidInput, "%s must be a valid UUID", fieldName)
	}

	return id, nil
}

// ParseOptionalDate parses a YYYY-MM-DD query value. Empty input yields nil.
func ParseOptionalDate(dateStr, fieldName string) (*time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return nil, NewError(KindInvalidInput, "%s must be in YYYY-MM-DD format", fieldName)
	}
	return &date, nil
}

// ParseStartDate parses a subscription start date in YYYY-MM-DDTHH:MM:SS.
// Empty input yields now.
func ParseStartDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now, nil
	}

	start, err := time.Parse(DateTimeLayout, value)
	if err != nil {
		return time.Time{}, NewError(KindInvalidInput, "start_date must be in YYYY-MM-DDTHH:MM:SS format")
	}
	return start, nil
}

// MonthBounds returns [first day of month, first day of next month) for a YYYY-MM
// value, or for now's month when value is empty.
func MonthBounds(value string, now time.Time) (time.Time, time.Time, error) {
	var month time.Time
	value = strings.TrimSpace(value)
	if value == "" {
		month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	} else {
		parsed, err := time.Parse(MonthLayout, value)
		if err != nil {
			return time.Time{}, time.Time{}, NewError(KindInvalidInput, "month must be in YYYY-MM format")
		}
		month = parsed
	}
	return month, month.AddDate(0, 1, 0), nil
}

// ValidateDateRange validates date ranges to prevent abuse
func ValidateDateRange(startDate, endDate *time.Time) error {
	if startDate == nil || endDate == nil {
		return nil
	}
	if endDate.Before(*startDate) {
		return NewError(KindInvalidInput, "end date cannot be before start date")
	}

	maxDuration := time.Hour * 24 * 365 * 10
	if endDate.Sub(*startDate) > maxDuration {
		return NewError(KindInvalidInput, "date range cannot exceed 10 years")
	}

	return nil
}

// ValidatePaginationParams validates pagination parameters
func ValidatePaginationParams(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	if offset < 0 {
		offset = 0
	}
	if offset > 1000000 {
		return 0, 0, fmt.Errorf("offset cannot exceed 1,000,000")
	}

	return limit, offset, nil
}

// SecureErrorMessage keeps the kind of a core error and replaces anything else with
// a generic message to prevent information leakage.
func SecureErrorMessage(operation string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindInternal {
		return err
	}
	return WrapError(KindInternal, fmt.Sprintf("failed to %s: operation could not be completed", operation), err)
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// WithUserID stores the authenticated user ID in ctx
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}
