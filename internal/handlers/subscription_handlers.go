package handlers

import (
	"net/http"

	"pay2u/internal/common"
	"pay2u/internal/services"

	"github.com/labstack/echo/v4"
)

// SubscriptionHandlers exposes subscribe, cancel and the user's subscription list
type SubscriptionHandlers struct {
	subscriptions services.SubscriptionService
}

func NewSubscriptionHandlers(subscriptions services.SubscriptionService) *SubscriptionHandlers {
	return &SubscriptionHandlers{subscriptions: subscriptions}
}

// Subscribe handles POST /v1/services/:id/subscribe
func (h *SubscriptionHandlers) Subscribe(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	serviceID, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}

	var req services.CreateSubscriptionRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}
	req.UserID = userID
	req.ServiceID = serviceID

	subscription, err := h.subscriptions.Create(c.Request().Context(), &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, subscription)
}

// Unsubscribe handles DELETE /v1/services/:id/subscribe. Nothing is refunded.
func (h *SubscriptionHandlers) Unsubscribe(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	serviceID, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}

	var req services.CancelSubscriptionRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	if err := h.subscriptions.Cancel(c.Request().Context(), userID, serviceID, req.TermID); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Subscription cancelled",
	})
}

// ListSubscriptions handles GET /v1/subscriptions
func (h *SubscriptionHandlers) ListSubscriptions(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}

	subs, err := h.subscriptions.List(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": subs,
		"limit":         limit,
		"offset":        offset,
	})
}

// GetSubscription handles GET /v1/subscriptions/:id
func (h *SubscriptionHandlers) GetSubscription(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}

	subscription, err := h.subscriptions.Get(c.Request().Context(), userID, id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, subscription)
}
