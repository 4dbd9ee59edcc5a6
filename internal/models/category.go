package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is the stored shape for any uploaded media reference.
type Image struct {
	URL  string `json:"url" bson:"url"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
}

type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	Description string             `json:"description,omitempty" bson:"description"`
	Image       *Image             `json:"image,omitempty" bson:"image,omitempty"`
	Tags        []string           `json:"tags,omitempty" bson:"tags,omitempty"`

	// Back-references to services in this category. ServiceCount is derived
	// from this list and kept in sync by the service handlers.
	ServiceIDs   []primitive.ObjectID `json:"serviceIds" bson:"serviceIds"`
	ServiceCount int                  `json:"serviceCount" bson:"serviceCount"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type UpdateCategoryInput struct {
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Image       *Image    `json:"image,omitempty" bson:"image,omitempty"`
	Tags        []string  `json:"tags" bson:"tags"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CategoryWithServices is the payload for the detail view that needs the
// category and its services in one round trip.
type CategoryWithServices struct {
	Category Category  `json:"category"`
	Services []Service `json:"services"`
}

type CategoryStats struct {
	TotalCategories     int            `json:"totalCategories"`
	TotalServices       int            `json:"totalServices"`
	ServicesPerCategory map[string]int `json:"servicesPerCategory"`
}
