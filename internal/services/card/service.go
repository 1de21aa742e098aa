package card

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gigdesk/internal/models"
	"gigdesk/internal/repositories"

	"github.com/stripe/stripe-go/v72"
)

var (
	ErrCardNotFound        = errors.New("card not found")
	ErrCardNotActive       = errors.New("card not active")
	ErrCardNotBelongToUser = errors.New("card does not belong to user")
)

type Service interface {
	LinkCard(userID uint, input models.CreateCardInput) (*models.PaymentCard, error)
	GetCard(cardID uint) (*models.PaymentCard, error)
	ValidateCard(userID, cardID uint) error
	ActiveCard(userID uint) (*models.PaymentCard, error)
	ListCards(userID uint) ([]models.PaymentCard, error)
	RemoveCard(userID, cardID uint) error
}

type service struct {
	repo repositories.CardRepository
}

func NewService(repo repositories.CardRepository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) LinkCard(userID uint, input models.CreateCardInput) (*models.PaymentCard, error) {
	token, err := s.tokenizeCard(input)
	if err != nil {
		return nil, err
	}

	lastFour := input.CardNumber
	if len(lastFour) > 4 {
		lastFour = lastFour[len(lastFour)-4:]
	}

	card := &models.PaymentCard{
		UserID:      userID,
		Token:       token.Token, // Store token instead of actual number
		CardType:    token.CardType,
		ExpiryMonth: input.ExpiryMonth,
		ExpiryYear:  input.ExpiryYear,
		LastFour:    lastFour,
		Status:      "active",
	}

	if err := s.repo.Create(card); err != nil {
		return nil, err
	}

	return card, nil
}

func (s *service) GetCard(cardID uint) (*models.PaymentCard, error) {
	card, err := s.repo.GetByID(cardID)
	if err != nil {
		if err == repositories.ErrCardNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

func (s *service) ValidateCard(userID, cardID uint) error {
	card, err := s.GetCard(cardID)
	if err != nil {
		return err
	}

	if card.UserID != userID {
		return ErrCardNotBelongToUser
	}

	if card.Status != "active" {
		return ErrCardNotActive
	}

	return nil
}

func (s *service) ActiveCard(userID uint) (*models.PaymentCard, error) {
	card, err := s.repo.GetActiveByUser(userID)
	if err != nil {
		if err == repositories.ErrCardNotFound {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return card, nil
}

func (s *service) ListCards(userID uint) ([]models.PaymentCard, error) {
	return s.repo.ListByUser(userID)
}

func (s *service) RemoveCard(userID, cardID uint) error {
	card, err := s.GetCard(cardID)
	if err != nil {
		return err
	}
	if card.UserID != userID {
		return ErrCardNotBelongToUser
	}
	return s.repo.Delete(cardID)
}

// tokenizeCard exchanges raw card data for a token. Only Stripe test
// tokens and test card numbers resolve here; real numbers must be
// tokenized client-side.
func (s *service) tokenizeCard(input models.CreateCardInput) (*models.CardToken, error) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	testCards := map[string]struct {
		token    string
		cardType string
	}{
		"4242424242424242": {"tok_visa", "Visa"},
		"4000056655665556": {"tok_visa_debit", "Visa Debit"},
		"5555555555554444": {"tok_mastercard", "Mastercard"},
	}

	if strings.HasPrefix(input.CardNumber, "tok_") {
		cardType := "Unknown"
		switch input.CardNumber {
		case "tok_visa", "tok_visa_debit":
			cardType = "Visa"
		case "tok_mastercard":
			cardType = "Mastercard"
		}

		return &models.CardToken{
			Token:    input.CardNumber,
			CardType: cardType,
			Expiry:   fmt.Sprintf("%s/%s", input.ExpiryMonth, input.ExpiryYear),
		}, nil
	}

	if testCard, ok := testCards[input.CardNumber]; ok {
		return &models.CardToken{
			Token:    testCard.token,
			CardType: testCard.cardType,
			Expiry:   fmt.Sprintf("%s/%s", input.ExpiryMonth, input.ExpiryYear),
		}, nil
	}

	if !isValidCardNumber(input.CardNumber) {
		return nil, errors.New("invalid card number: failed Luhn check")
	}

	expiryMonth, err := strconv.Atoi(input.ExpiryMonth)
	if err != nil {
		return nil, errors.New("invalid expiry month format")
	}
	expiryYear, err := strconv.Atoi(input.ExpiryYear)
	if err != nil {
		return nil, errors.New("invalid expiry year format")
	}

	if !isValidExpiryDate(expiryMonth, expiryYear) {
		return nil, errors.New("card is expired or has invalid expiry date")
	}

	return nil, errors.New("direct card tokenization is not supported - please use Stripe Elements or Mobile SDK")
}

func isValidCardNumber(cardNumber string) bool {
	if len(cardNumber) < 12 {
		return false
	}

	var sum int
	shouldDouble := false

	for i := len(cardNumber) - 1; i >= 0; i-- {
		if cardNumber[i] < '0' || cardNumber[i] > '9' {
			return false
		}
		digit := int(cardNumber[i] - '0')
		if shouldDouble {
			digit = digit * 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		shouldDouble = !shouldDouble
	}

	return sum%10 == 0
}

func isValidExpiryDate(month, year int) bool {
	if month < 1 || month > 12 {
		return false
	}

	currentYear, currentMonth, _ := time.Now().Date()
	if year < currentYear || (year == currentYear && month < int(currentMonth)) {
		return false
	}

	return true
}
