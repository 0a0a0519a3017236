package handlers

import (
	"errors"
	"net/http"

	"pay2u/internal/common"
	"pay2u/internal/services"

	"github.com/labstack/echo/v4"
)

// CardHandlers manages the user's virtual bank cards
type CardHandlers struct {
	ledger services.LedgerService
}

func NewCardHandlers(ledger services.LedgerService) *CardHandlers {
	return &CardHandlers{ledger: ledger}
}

// IssueCardRequest registers a new card. The first card a user holds becomes active.
type IssueCardRequest struct {
	CardNumber string `json:"card_number" validate:"required,max=32"`
}

// ListCards handles GET /v1/cards, active card first
func (h *CardHandlers) ListCards(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	cards, err := h.ledger.ListCards(c.Request().Context(), userID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"cards": cards,
	})
}

// IssueCard handles POST /v1/cards
func (h *CardHandlers) IssueCard(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req IssueCardRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	card, err := h.ledger.IssueCard(c.Request().Context(), userID, req.CardNumber)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, card)
}

// ActivateCard handles POST /v1/cards/:id/activate. Activating the card that is
// already active is reported with 200 and the card unchanged.
func (h *CardHandlers) ActivateCard(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	cardID, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}

	card, err := h.ledger.Activate(c.Request().Context(), userID, cardID)
	switch {
	case errors.Is(err, common.ErrAlreadyActive):
		return c.JSON(http.StatusOK, map[string]interface{}{
			"card":    card,
			"message": common.MessageOf(err),
		})
	case err != nil:
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"card":    card,
		"message": "Card activated",
	})
}

// DeleteCard handles DELETE /v1/cards/:id. Subscriptions billed to the card keep
// running with no card attached.
func (h *CardHandlers) DeleteCard(c echo.Context) error {
	userID, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	cardID, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}

	if err := h.ledger.RemoveCard(c.Request().Context(), userID, cardID); err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Card removed",
	})
}
