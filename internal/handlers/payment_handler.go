package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/developia-II/servicehub-backend/internal/adapters/repository"
	"github.com/developia-II/servicehub-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type PaymentHandler struct {
	ClientRepo  repository.ClientRepository
	ServiceRepo repository.ServiceRepository
}

func NewPaymentHandler(db *mongo.Database) *PaymentHandler {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	return &PaymentHandler{
		ClientRepo:  repository.NewClientRepository(db),
		ServiceRepo: repository.NewServiceRepository(db),
	}
}

// CreatePaymentIntent charges a client for a service request. The amount is
// the service's full pricing total: base price + percentage charge + fees.
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req struct {
		ClientID  string `json:"clientId" binding:"required"`
		RequestID string `json:"requestId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request"))
		return
	}

	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid client ID"))
		return
	}

	client, err := h.ClientRepo.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Client not found"))
		return
	}

	var serviceID primitive.ObjectID
	found := false
	for _, request := range client.ServiceRequests {
		if request.ID == req.RequestID {
			serviceID = request.ServiceID
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Service request not found"))
		return
	}

	service, err := h.ServiceRepo.GetServiceByID(c.Request.Context(), serviceID)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Service not found"))
		return
	}

	amount := int64(service.Pricing.Total() * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(strings.ToLower(string(service.Pricing.Currency))),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"requestId": req.RequestID,
		},
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse(fmt.Sprintf("Stripe error: %v", err)))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Payment intent created", gin.H{
		"clientSecret": pi.ClientSecret,
	}))
}

// HandleWebhook processes asynchronous events from Stripe
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.ErrorResponse("Error reading request body"))
		return
	}

	endpointSecret := strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET"))

	// Fallback check: if somehow secret is missing, try loading env again
	if endpointSecret == "" {
		_ = godotenv.Load()
		endpointSecret = strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET"))
	}

	signature := c.GetHeader("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, signature, endpointSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid signature"))
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Error parsing webhook JSON"))
			return
		}

		requestID := pi.Metadata["requestId"]
		if requestID == "" {
			c.JSON(http.StatusOK, gin.H{"success": true}) // Return 200 so Stripe doesn't retry invalid data
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		if err := h.ClientRepo.MarkRequestPaid(ctx, requestID, pi.ID); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": true}) // Return 200 so Stripe doesn't retry invalid data
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
