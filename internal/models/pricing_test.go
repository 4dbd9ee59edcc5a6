package models_test

import (
	"testing"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

func floatPtr(f float64) *float64 { return &f }

func TestPricingTotal(t *testing.T) {
	p := models.Pricing{
		BasePrice:        100,
		Currency:         models.CurrencyUSD,
		PercentageCharge: floatPtr(10),
		AdditionalFees: []models.AdditionalFee{
			{Name: "materials", Amount: 25},
			{Name: "transport", Amount: 15},
		},
	}
	assert.InDelta(t, 150, p.Total(), 0.001)
}

func TestPricingTotalWithoutExtras(t *testing.T) {
	p := models.Pricing{BasePrice: 80, Currency: models.CurrencyGBP}
	assert.InDelta(t, 80, p.Total(), 0.001)
}

func TestPricingValidation(t *testing.T) {
	valid := models.Pricing{BasePrice: 50, Currency: models.CurrencyEUR}
	require.NoError(t, validate.Struct(valid))

	zeroBase := valid
	zeroBase.BasePrice = 0
	assert.Error(t, validate.Struct(zeroBase), "base price must be positive")

	negativeBase := valid
	negativeBase.BasePrice = -5
	assert.Error(t, validate.Struct(negativeBase))

	badCurrency := valid
	badCurrency.Currency = "XYZ"
	assert.Error(t, validate.Struct(badCurrency))

	overCharge := valid
	overCharge.PercentageCharge = floatPtr(150)
	assert.Error(t, validate.Struct(overCharge), "percentage charge capped at 100")

	maxCharge := valid
	maxCharge.PercentageCharge = floatPtr(100)
	assert.NoError(t, validate.Struct(maxCharge))

	negativeFee := valid
	negativeFee.AdditionalFees = []models.AdditionalFee{{Name: "fee", Amount: -1}}
	assert.Error(t, validate.Struct(negativeFee))
}

func TestServiceValidationRequiresCategoryAndTitle(t *testing.T) {
	service := models.Service{
		CategoryID: primitive.NewObjectID(),
		Title:      "House Cleaning",
		Pricing:    models.Pricing{BasePrice: 40, Currency: models.CurrencyUSD},
	}
	require.NoError(t, validate.Struct(service))

	noTitle := service
	noTitle.Title = ""
	assert.Error(t, validate.Struct(noTitle))

	noCategory := service
	noCategory.CategoryID = primitive.ObjectID{}
	assert.Error(t, validate.Struct(noCategory))
}
