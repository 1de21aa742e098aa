package billing

import (
	"context"
	"errors"
	"time"

	"gigdesk/internal/logger"
	"gigdesk/internal/models"
	"gigdesk/internal/repositories"
	"gigdesk/internal/services/card"
	"gigdesk/internal/services/ledger"
)

var (
	ErrAlreadyActivated = errors.New("account already activated")
	ErrNoActiveCard     = errors.New("no active payment card on file")
)

// Service handles the activation paywall: a user links a card and pays
// the premium plan for their role before the account unlocks.
type Service interface {
	ActivateAccount(ctx context.Context, userID, cardID uint) (*models.TransactionRecord, error)
	RenewSubscription(ctx context.Context, userID uint) (*models.TransactionRecord, error)
}

type service struct {
	userRepo repositories.UserRepository
	cards    card.Service
	ledger   *ledger.Service
}

func NewService(userRepo repositories.UserRepository, cards card.Service, ledgerSvc *ledger.Service) Service {
	return &service{
		userRepo: userRepo,
		cards:    cards,
		ledger:   ledgerSvc,
	}
}

func (s *service) ActivateAccount(ctx context.Context, userID, cardID uint) (*models.TransactionRecord, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Activated {
		return nil, ErrAlreadyActivated
	}

	if err := s.cards.ValidateCard(userID, cardID); err != nil {
		return nil, err
	}

	tx, err := s.ledger.ProcessSubscription(ctx, userID, user.Role)
	if err != nil {
		return nil, err
	}

	premiumUntil := time.Now().AddDate(0, 1, 0)
	user.Activated = true
	user.PremiumUntil = &premiumUntil

	if err := s.userRepo.Update(user); err != nil {
		logger.L().WithError(err).WithField("user_id", userID).
			Error("activation charge recorded but user update failed")
		return nil, err
	}

	logger.L().WithField("user_id", userID).Info("account activated")
	return tx, nil
}

func (s *service) RenewSubscription(ctx context.Context, userID uint) (*models.TransactionRecord, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.cards.ActiveCard(userID); err != nil {
		return nil, ErrNoActiveCard
	}

	tx, err := s.ledger.ProcessSubscription(ctx, userID, user.Role)
	if err != nil {
		return nil, err
	}

	// Extend from the current expiry when it is still in the future
	base := time.Now()
	if user.PremiumUntil != nil && user.PremiumUntil.After(base) {
		base = *user.PremiumUntil
	}
	premiumUntil := base.AddDate(0, 1, 0)
	user.PremiumUntil = &premiumUntil

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return tx, nil
}
