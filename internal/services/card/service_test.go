package card

import (
	"testing"

	"gigdesk/internal/models"
	"gigdesk/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCardRepo struct {
	mock.Mock
}

func (m *mockCardRepo) Create(card *models.PaymentCard) error {
	args := m.Called(card)
	return args.Error(0)
}

func (m *mockCardRepo) GetByID(id uint) (*models.PaymentCard, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentCard), args.Error(1)
}

func (m *mockCardRepo) GetActiveByUser(userID uint) (*models.PaymentCard, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentCard), args.Error(1)
}

func (m *mockCardRepo) ListByUser(userID uint) ([]models.PaymentCard, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentCard), args.Error(1)
}

func (m *mockCardRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestLinkCard(t *testing.T) {
	t.Run("stripe test card stores a token", func(t *testing.T) {
		repo := new(mockCardRepo)
		svc := NewService(repo)

		repo.On("Create", mock.MatchedBy(func(pc *models.PaymentCard) bool {
			return pc.Token == "tok_visa" && pc.LastFour == "4242"
		})).Return(nil)

		card, err := svc.LinkCard(1, models.CreateCardInput{
			CardNumber:  "4242424242424242",
			ExpiryMonth: "12",
			ExpiryYear:  "2030",
			CVV:         "123",
		})
		require.NoError(t, err)
		assert.Equal(t, "Visa", card.CardType)
		assert.Equal(t, "active", card.Status)
		repo.AssertExpectations(t)
	})

	t.Run("pre-tokenized input passes through", func(t *testing.T) {
		repo := new(mockCardRepo)
		svc := NewService(repo)
		repo.On("Create", mock.Anything).Return(nil)

		card, err := svc.LinkCard(1, models.CreateCardInput{
			CardNumber:  "tok_mastercard",
			ExpiryMonth: "06",
			ExpiryYear:  "2031",
		})
		require.NoError(t, err)
		assert.Equal(t, "tok_mastercard", card.Token)
		assert.Equal(t, "Mastercard", card.CardType)
	})

	t.Run("luhn failure rejected", func(t *testing.T) {
		svc := NewService(new(mockCardRepo))

		_, err := svc.LinkCard(1, models.CreateCardInput{
			CardNumber:  "4242424242424241",
			ExpiryMonth: "12",
			ExpiryYear:  "2030",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Luhn")
	})

	t.Run("expired card rejected", func(t *testing.T) {
		svc := NewService(new(mockCardRepo))

		// 4111111111111111 passes Luhn but the card is long expired
		_, err := svc.LinkCard(1, models.CreateCardInput{
			CardNumber:  "4111111111111111",
			ExpiryMonth: "01",
			ExpiryYear:  "2020",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expire")
	})
}

func TestValidateCard(t *testing.T) {
	tests := []struct {
		name    string
		card    *models.PaymentCard
		repoErr error
		userID  uint
		wantErr error
	}{
		{
			name:   "active card of owner",
			card:   &models.PaymentCard{UserID: 1, Status: "active"},
			userID: 1,
		},
		{
			name:    "wrong owner",
			card:    &models.PaymentCard{UserID: 2, Status: "active"},
			userID:  1,
			wantErr: ErrCardNotBelongToUser,
		},
		{
			name:    "inactive card",
			card:    &models.PaymentCard{UserID: 1, Status: "expired"},
			userID:  1,
			wantErr: ErrCardNotActive,
		},
		{
			name:    "missing card",
			repoErr: repositories.ErrCardNotFound,
			userID:  1,
			wantErr: ErrCardNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockCardRepo)
			svc := NewService(repo)

			if tt.repoErr != nil {
				repo.On("GetByID", uint(7)).Return(nil, tt.repoErr)
			} else {
				repo.On("GetByID", uint(7)).Return(tt.card, nil)
			}

			err := svc.ValidateCard(tt.userID, 7)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
