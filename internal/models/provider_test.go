package models_test

import (
	"testing"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validProvider() models.Provider {
	return models.Provider{
		UserID:   primitive.NewObjectID(),
		FullName: "Kofi Boateng",
		Contact: models.Contact{
			PrimaryPhone: "0241234567",
			Email:        "kofi@example.com",
		},
		Verification: models.Verification{
			IDType:   "ghana-card",
			IDNumber: "GHA-000111",
		},
		Witnesses: []models.Witness{
			{FullName: "Ama Mensah", Phone: "0209876543", IDType: "ghana-card", IDNumber: "GHA-000222", Relationship: "sister"},
		},
	}
}

func TestProviderValidation(t *testing.T) {
	require.NoError(t, validate.Struct(validProvider()))
}

func TestProviderRequiresAtLeastOneWitness(t *testing.T) {
	p := validProvider()
	p.Witnesses = nil
	assert.Error(t, validate.Struct(p))

	p.Witnesses = []models.Witness{}
	assert.Error(t, validate.Struct(p))
}

func TestWitnessFieldsAllRequired(t *testing.T) {
	p := validProvider()
	p.Witnesses[0].Relationship = ""
	assert.Error(t, validate.Struct(p))
}

func TestContactRequiresValidEmail(t *testing.T) {
	p := validProvider()
	p.Contact.Email = "not-an-email"
	assert.Error(t, validate.Struct(p))
}

func TestRatingBounds(t *testing.T) {
	require.NoError(t, validate.Struct(models.ClientRating{ProviderID: primitive.NewObjectID(), Rating: 3}))
	assert.Error(t, validate.Struct(models.ClientRating{ProviderID: primitive.NewObjectID(), Rating: 0}))
	assert.Error(t, validate.Struct(models.ClientRating{ProviderID: primitive.NewObjectID(), Rating: 6}))
}
