package handlers

import (
	"net/http"

	"pay2u/internal/common"
	"pay2u/internal/services"

	"github.com/labstack/echo/v4"
)

// ComparisonHandlers manages the services a user is comparing side by side
type ComparisonHandlers struct {
	comparisons services.ComparisonService
}

func NewComparisonHandlers(comparisons services.ComparisonService) *ComparisonHandlers {
	return &ComparisonHandlers{comparisons: comparisons}
}

// ListComparison handles GET /v1/comparison
func (h *ComparisonHandlers) ListComparison(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	list, err := h.comparisons.List(c.Request().Context(), userID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"comparison": list,
	})
}

// AddToComparison handles POST /v1/comparison/:service_id
func (h *ComparisonHandlers) AddToComparison(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	serviceID, ok, err := paramUUID(c, "service_id")
	if !ok {
		return err
	}

	entry, err := h.comparisons.Add(c.Request().Context(), userID, serviceID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

// RemoveFromComparison handles DELETE /v1/comparison/:service_id
func (h *ComparisonHandlers) RemoveFromComparison(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	serviceID, ok, err := paramUUID(c, "service_id")
	if !ok {
		return err
	}

	if err := h.comparisons.Remove(c.Request().Context(), userID, serviceID); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Service removed from comparison",
	})
}
