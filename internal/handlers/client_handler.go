package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/developia-II/servicehub-backend/internal/adapters/repository"
	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ClientHandler struct {
	Repo repository.ClientRepository
}

func NewClientHandler(db *mongo.Database) *ClientHandler {
	return &ClientHandler{Repo: repository.NewClientRepository(db)}
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(client); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateClient(ctx, client)
	if err != nil {
		c.JSON(http.StatusConflict, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Client profile created successfully", gin.H{
		"client": created,
	}))
}

func (h *ClientHandler) GetAllClients(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	page, limit, skip := pageParams(c)
	filter := bson.M{}
	if region := c.Query("region"); region != "" {
		filter["location.region"] = region
	}
	if city := c.Query("city"); city != "" {
		filter["location.city"] = city
	}
	if search := c.Query("search"); search != "" {
		filter["fullName"] = bson.M{"$regex": search, "$options": "i"}
	}

	clients, total, err := h.Repo.GetAllClients(ctx, filter, int64(limit), skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch clients"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Clients fetched successfully", gin.H{
		"items":      clients,
		"pagination": paginationMeta(page, limit, total),
	}))
}

func (h *ClientHandler) GetClientByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid client ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	client, err := h.Repo.GetClientByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Client not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Client fetched successfully", gin.H{
		"client": client,
	}))
}

func (h *ClientHandler) GetClientByUserID(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid user ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	client, err := h.Repo.GetClientByUserID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Client not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Client fetched successfully", gin.H{
		"client": client,
	}))
}

func (h *ClientHandler) SearchClients(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Search query is required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	clients, err := h.Repo.SearchClients(ctx, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to search clients"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Search completed", gin.H{
		"items": clients,
	}))
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid client ID"))
		return
	}

	var input models.UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Repo.UpdateClient(ctx, id, input)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Client not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Client updated successfully", gin.H{
		"client": updated,
	}))
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid client ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteClient(ctx, id); err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Client deleted successfully", nil))
}

func (h *ClientHandler) AddServiceRequest(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid client ID"))
		return
	}

	var input models.AddServiceRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Repo.AddServiceRequest(ctx, id, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Service request created", gin.H{
		"client": updated,
	}))
}

func (h *ClientHandler) UpdateServiceRequestStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid client ID"))
		return
	}
	requestID := c.Param("requestId")

	var input models.UpdateRequestStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid status provided"))
		return
	}

	switch input.Status {
	case models.RequestStatusPending, models.RequestStatusInProgress,
		models.RequestStatusCompleted, models.RequestStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid status provided"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Repo.UpdateServiceRequestStatus(ctx, id, requestID, input.Status)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Request status updated", gin.H{
		"client": updated,
	}))
}

func (h *ClientHandler) RateProvider(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid client ID"))
		return
	}
	providerID, err := primitive.ObjectIDFromHex(c.Param("providerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid provider ID"))
		return
	}

	var input models.RateProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Repo.AddRating(ctx, id, providerID, input)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Rating submitted successfully", gin.H{
		"client": updated,
	}))
}

func (h *ClientHandler) GetClientStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Repo.GetClientStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch client stats"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Client stats fetched successfully", gin.H{
		"stats": stats,
	}))
}
