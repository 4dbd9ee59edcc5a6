package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
	CurrencyCAD Currency = "CAD"
	CurrencyAUD Currency = "AUD"
)

type AdditionalFee struct {
	ID          string  `json:"id" bson:"id"`
	Name        string  `json:"name" bson:"name" validate:"required"`
	Amount      float64 `json:"amount" bson:"amount" validate:"gte=0"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
}

type Pricing struct {
	BasePrice        float64         `json:"basePrice" bson:"basePrice" validate:"required,gt=0"`
	Currency         Currency        `json:"currency" bson:"currency" validate:"required,oneof=USD EUR GBP CAD AUD"`
	PercentageCharge *float64        `json:"percentageCharge,omitempty" bson:"percentageCharge,omitempty" validate:"omitempty,gte=0,lte=100"`
	AdditionalFees   []AdditionalFee `json:"additionalFees,omitempty" bson:"additionalFees,omitempty" validate:"omitempty,dive"`
	Notes            string          `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Total returns the full charge for the service: base price plus the
// percentage charge plus every additional fee.
func (p Pricing) Total() float64 {
	total := p.BasePrice
	if p.PercentageCharge != nil {
		total += p.BasePrice * (*p.PercentageCharge) / 100
	}
	for _, fee := range p.AdditionalFees {
		total += fee.Amount
	}
	return total
}

type Service struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CategoryID primitive.ObjectID `json:"categoryId" bson:"categoryId" validate:"required"`

	Title           string `json:"title" bson:"title" validate:"required"`
	Description     string `json:"description" bson:"description"`
	LongDescription string `json:"longDescription,omitempty" bson:"longDescription,omitempty"`

	Image *Image   `json:"image,omitempty" bson:"image,omitempty"`
	Tags  []string `json:"tags,omitempty" bson:"tags,omitempty"`

	IsActive bool `json:"isActive" bson:"isActive"`
	Popular  bool `json:"popular" bson:"popular"`

	Pricing Pricing `json:"pricing" bson:"pricing" validate:"required"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type UpdateServiceInput struct {
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	LongDescription string             `json:"longDescription" bson:"longDescription"`
	CategoryID      primitive.ObjectID `json:"categoryId" bson:"categoryId"`
	Image           *Image             `json:"image,omitempty" bson:"image,omitempty"`
	Tags            []string           `json:"tags" bson:"tags"`
	IsActive        bool               `json:"isActive" bson:"isActive"`
	Popular         bool               `json:"popular" bson:"popular"`
	Pricing         Pricing            `json:"pricing" bson:"pricing" validate:"required"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type ServiceStats struct {
	TotalServices   int `json:"totalServices"`
	ActiveServices  int `json:"activeServices"`
	PopularServices int `json:"popularServices"`
}
