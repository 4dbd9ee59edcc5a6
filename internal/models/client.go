package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusInProgress RequestStatus = "in-progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

type ServiceRequest struct {
	ID         string             `json:"id" bson:"id"`
	ServiceID  primitive.ObjectID `json:"serviceId" bson:"serviceId"`
	ProviderID primitive.ObjectID `json:"providerId" bson:"providerId"`
	Status     RequestStatus      `json:"status" bson:"status"`
	Date       time.Time          `json:"date" bson:"date"`
	Notes      string             `json:"notes,omitempty" bson:"notes,omitempty"`

	PaymentStatus string `json:"paymentStatus,omitempty" bson:"paymentStatus,omitempty"`
	PaymentID     string `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
}

// ClientRating records a rating a client gave to a provider.
type ClientRating struct {
	ProviderID primitive.ObjectID `json:"providerId" bson:"providerId"`
	Rating     int                `json:"rating" bson:"rating" validate:"min=1,max=5"`
	Comment    string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

type Client struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `json:"userId" bson:"userId" validate:"required"`

	FullName string   `json:"fullName" bson:"fullName" validate:"required"`
	Location Location `json:"location" bson:"location"`

	ServiceRequests []ServiceRequest `json:"serviceRequests" bson:"serviceRequests"`
	Ratings         []ClientRating   `json:"ratings" bson:"ratings"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type UpdateClientInput struct {
	FullName  string    `json:"fullName" bson:"fullName"`
	Location  Location  `json:"location" bson:"location"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

type AddServiceRequestInput struct {
	ServiceID  primitive.ObjectID `json:"serviceId" binding:"required"`
	ProviderID primitive.ObjectID `json:"providerId" binding:"required"`
	Date       time.Time          `json:"date" binding:"required"`
	Notes      string             `json:"notes"`
}

type UpdateRequestStatusInput struct {
	Status RequestStatus `json:"status" binding:"required"`
}

type ClientStats struct {
	TotalClients     int            `json:"totalClients"`
	TotalRequests    int            `json:"totalRequests"`
	RequestsByStatus map[string]int `json:"requestsByStatus"`
}
