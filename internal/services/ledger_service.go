package services

import (
	"context"
	"strings"
	"unicode"

	"pay2u/internal/common"
	"pay2u/internal/models"
	"pay2u/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// DefaultCardBalance seeds newly issued virtual cards.
const DefaultCardBalance int64 = 5000

type LedgerService interface {
	Authorize(card *models.Card, amount int64) bool
	Debit(ctx context.Context, cardID uuid.UUID, amount int64) (*models.Card, error)
	Activate(ctx context.Context, userID, cardID uuid.UUID) (*models.Card, error)
	ResolveCard(ctx context.Context, userID uuid.UUID, cardID *uuid.UUID) (*models.Card, error)
	ListCards(ctx context.Context, userID uuid.UUID) ([]*models.Card, error)
	IssueCard(ctx context.Context, userID uuid.UUID, cardNumber string) (*models.Card, error)
	RemoveCard(ctx context.Context, userID, cardID uuid.UUID) error
}

type ledgerService struct {
	txm            repositories.TxManager
	cardRepo       repositories.CardRepository
	subRepo        repositories.SubscriptionRepository
	defaultBalance int64
	logger         *zap.Logger
}

func NewLedgerService(txm repositories.TxManager, cardRepo repositories.CardRepository, subRepo repositories.SubscriptionRepository, defaultBalance int64, logger *zap.Logger) LedgerService {
	if defaultBalance < 0 {
		defaultBalance = DefaultCardBalance
	}
	return &ledgerService{
		txm:            txm,
		cardRepo:       cardRepo,
		subRepo:        subRepo,
		defaultBalance: defaultBalance,
		logger:         logger,
	}
}

// Authorize reports whether card can cover amount. It has no side effects.
func (s *ledgerService) Authorize(card *models.Card, amount int64) bool {
	return card != nil && amount >= 0 && card.Balance >= amount
}

// Debit withdraws amount from the card in its own transaction.
func (s *ledgerService) Debit(ctx context.Context, cardID uuid.UUID, amount int64) (*models.Card, error) {
	if amount < 0 {
		return nil, common.NewError(common.KindInvalidInput, "debit amount cannot be negative")
	}

	var card *models.Card
	err := s.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		var err error
		card, err = debitLocked(ctx, s.cardRepo.WithTx(tx), cardID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// debitLocked locks the card row, re-checks the balance and decrements it. cards
// must be bound to an open transaction.
func debitLocked(ctx context.Context, cards repositories.CardRepository, cardID uuid.UUID, amount int64) (*models.Card, error) {
	card, err := cards.GetForUpdate(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.Balance < amount {
		return nil, common.NewError(common.KindInsufficientFunds, "insufficient funds on the bank card")
	}

	balance, err := cards.Debit(ctx, cardID, amount)
	if err != nil {
		return nil, err
	}
	card.Balance = balance
	return card, nil
}

// Activate makes cardID the user's only active card. When it already is, the card
// is returned together with an AlreadyActive error and nothing changes.
func (s *ledgerService) Activate(ctx context.Context, userID, cardID uuid.UUID) (*models.Card, error) {
	var target *models.Card
	err := s.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		cards := s.cardRepo.WithTx(tx)
		locked, err := cards.LockUserCards(ctx, userID)
		if err != nil {
			return err
		}

		for _, card := range locked {
			if card.ID == cardID {
				target = card
				break
			}
		}
		if target == nil {
			return common.NewError(common.KindNotFound, "card not found")
		}
		if target.IsActive {
			return common.NewError(common.KindAlreadyActive, "card is already active")
		}

		if err := cards.SetActive(ctx, userID, cardID); err != nil {
			return err
		}
		target.IsActive = true
		return nil
	})
	if err != nil {
		if common.KindOf(err) == common.KindAlreadyActive {
			return target, err
		}
		return nil, err
	}

	s.logger.Info("card activated", zap.String("user_id", userID.String()), zap.String("card_id", cardID.String()))
	return target, nil
}

// ResolveCard picks the card to bill: the explicit one when given, otherwise the
// active card, otherwise the user's first card.
func (s *ledgerService) ResolveCard(ctx context.Context, userID uuid.UUID, cardID *uuid.UUID) (*models.Card, error) {
	if cardID != nil {
		return s.cardRepo.GetByID(ctx, userID, *cardID)
	}

	cards, err := s.cardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, common.NewError(common.KindNoPaymentMethod, "user has no bank card to bill the subscription")
	}
	return cards[0], nil
}

func (s *ledgerService) ListCards(ctx context.Context, userID uuid.UUID) ([]*models.Card, error) {
	cards, err := s.cardRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []*models.Card{}
	}
	return cards, nil
}

// IssueCard registers a new card with the default starting balance. A user's
// first card becomes the active one.
func (s *ledgerService) IssueCard(ctx context.Context, userID uuid.UUID, cardNumber string) (*models.Card, error) {
	cardNumber = strings.ReplaceAll(strings.TrimSpace(cardNumber), " ", "")
	if err := validateCardNumber(cardNumber); err != nil {
		return nil, err
	}

	card := &models.Card{
		ID:         uuid.New(),
		UserID:     userID,
		CardNumber: cardNumber,
		Balance:    s.defaultBalance,
	}

	err := s.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		cards := s.cardRepo.WithTx(tx)
		existing, err := cards.LockUserCards(ctx, userID)
		if err != nil {
			return err
		}
		card.IsActive = len(existing) == 0
		return cards.Create(ctx, card)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("card issued", zap.String("user_id", userID.String()), zap.String("card_id", card.ID.String()), zap.Bool("active", card.IsActive))
	return card, nil
}

// RemoveCard deletes the card and clears it from every subscription billed to it.
func (s *ledgerService) RemoveCard(ctx context.Context, userID, cardID uuid.UUID) error {
	var detached int64
	err := s.txm.WithinTx(ctx, func(tx pgx.Tx) error {
		cards := s.cardRepo.WithTx(tx)
		if _, err := cards.GetByID(ctx, userID, cardID); err != nil {
			return err
		}

		var err error
		detached, err = s.subRepo.WithTx(tx).DetachCard(ctx, cardID)
		if err != nil {
			return err
		}
		return cards.Delete(ctx, userID, cardID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("card removed", zap.String("user_id", userID.String()), zap.String("card_id", cardID.String()), zap.Int64("detached_subscriptions", detached))
	return nil
}

func validateCardNumber(number string) error {
	if len(number) < 12 || len(number) > 19 {
		return common.NewError(common.KindInvalidInput, "card number must have 12 to 19 digits")
	}
	for _, r := range number {
		if !unicode.IsDigit(r) {
			return common.NewError(common.KindInvalidInput, "card number must contain digits only")
		}
	}
	return nil
}
