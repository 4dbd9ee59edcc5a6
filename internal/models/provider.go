package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Contact struct {
	PrimaryPhone     string `json:"primaryPhone" bson:"primaryPhone" validate:"required"`
	SecondaryPhone   string `json:"secondaryPhone,omitempty" bson:"secondaryPhone,omitempty"`
	Email            string `json:"email" bson:"email" validate:"required,email"`
	EmergencyContact string `json:"emergencyContact,omitempty" bson:"emergencyContact,omitempty"`
}

type Verification struct {
	IDType    string `json:"idType" bson:"idType" validate:"required"`
	IDNumber  string `json:"idNumber" bson:"idNumber" validate:"required"`
	IDFileURL string `json:"idFileUrl,omitempty" bson:"idFileUrl,omitempty"`
	Verified  bool   `json:"verified" bson:"verified"`
}

type Location struct {
	Region     string `json:"region" bson:"region"`
	City       string `json:"city" bson:"city"`
	District   string `json:"district,omitempty" bson:"district,omitempty"`
	Locality   string `json:"locality,omitempty" bson:"locality,omitempty"`
	GPSAddress string `json:"gpsAddress,omitempty" bson:"gpsAddress,omitempty"`
	Landmark   string `json:"landmark,omitempty" bson:"landmark,omitempty"`
}

// Witness is a character reference vouching for a provider. Every provider
// must keep at least one witness on file; removal of the last one is rejected.
type Witness struct {
	ID           string `json:"id" bson:"id"`
	FullName     string `json:"fullName" bson:"fullName" validate:"required"`
	Phone        string `json:"phone" bson:"phone" validate:"required"`
	IDType       string `json:"idType" bson:"idType" validate:"required"`
	IDNumber     string `json:"idNumber" bson:"idNumber" validate:"required"`
	Relationship string `json:"relationship" bson:"relationship" validate:"required"`
}

type SocialHandle struct {
	Platform string `json:"platform" bson:"platform"`
	Handle   string `json:"handle" bson:"handle"`
}

type Rating struct {
	Average float64 `json:"average" bson:"average"`
	Count   int     `json:"count" bson:"count"`
}

type Provider struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `json:"userId" bson:"userId" validate:"required"`

	FullName       string       `json:"fullName" bson:"fullName" validate:"required"`
	Contact        Contact      `json:"contact" bson:"contact" validate:"required"`
	Verification   Verification `json:"verification" bson:"verification" validate:"required"`
	Location       Location     `json:"location" bson:"location"`
	ProfilePicture string       `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`

	ServiceIDs []primitive.ObjectID `json:"serviceIds" bson:"serviceIds"`
	Witnesses  []Witness            `json:"witnesses" bson:"witnesses" validate:"required,min=1,dive"`
	Socials    []SocialHandle       `json:"socials,omitempty" bson:"socials,omitempty"`

	Rating          Rating           `json:"rating" bson:"rating"`
	ServiceRequests []ServiceRequest `json:"serviceRequests" bson:"serviceRequests"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type UpdateProviderInput struct {
	FullName       string               `json:"fullName" bson:"fullName"`
	Contact        Contact              `json:"contact" bson:"contact"`
	Location       Location             `json:"location" bson:"location"`
	ProfilePicture string               `json:"profilePicture" bson:"profilePicture"`
	ServiceIDs     []primitive.ObjectID `json:"serviceIds" bson:"serviceIds"`
	Socials        []SocialHandle       `json:"socials" bson:"socials"`
	UpdatedAt      time.Time            `json:"updatedAt" bson:"updatedAt"`
}

type AddWitnessInput struct {
	FullName     string `json:"fullName" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	IDType       string `json:"idType" binding:"required"`
	IDNumber     string `json:"idNumber" binding:"required"`
	Relationship string `json:"relationship" binding:"required"`
}

type RateProviderInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type ProviderStats struct {
	TotalProviders    int            `json:"totalProviders"`
	VerifiedProviders int            `json:"verifiedProviders"`
	AverageRating     float64        `json:"averageRating"`
	RequestsByStatus  map[string]int `json:"requestsByStatus"`
}
