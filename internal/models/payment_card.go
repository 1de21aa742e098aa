package models

import "gorm.io/gorm"

// PaymentCard stores a tokenized card used for paywall charges. Only the
// token and display data are persisted, never the raw number.
type PaymentCard struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null"`
	Token       string `gorm:"not null"`
	CardType    string
	ExpiryMonth string
	ExpiryYear  string
	LastFour    string
	Status      string `gorm:"default:'active'"`
}

// CreateCardInput is the payload for linking a card.
type CreateCardInput struct {
	CardNumber  string `json:"card_number" validate:"required"`
	ExpiryMonth string `json:"expiry_month" validate:"required"`
	ExpiryYear  string `json:"expiry_year" validate:"required"`
	CVV         string `json:"cvv" validate:"required"`
}

// CardToken is the result of tokenizing a card.
type CardToken struct {
	Token    string `json:"token"`
	CardType string `json:"card_type"`
	Expiry   string `json:"expiry"`
}
