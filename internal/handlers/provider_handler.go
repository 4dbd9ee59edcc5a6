package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/developia-II/servicehub-backend/internal/adapters/repository"
	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProviderHandler struct {
	Repo repository.ProviderRepository
}

func NewProviderHandler(db *mongo.Database) *ProviderHandler {
	return &ProviderHandler{Repo: repository.NewProviderRepository(db)}
}

func (h *ProviderHandler) CreateProvider(c *gin.Context) {
	var provider models.Provider
	if err := c.ShouldBindJSON(&provider); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	// Witness ids are assigned server-side.
	for i := range provider.Witnesses {
		if provider.Witnesses[i].ID == "" {
			provider.Witnesses[i].ID = uuid.New().String()
		}
	}

	if err := validate.Struct(provider); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	provider.CreatedAt = time.Now()
	provider.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateProvider(ctx, provider)
	if err != nil {
		c.JSON(http.StatusConflict, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Provider registered successfully", gin.H{
		"provider": created,
	}))
}

func (h *ProviderHandler) GetAllProviders(c *gin.Context) {
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
	if serviceID := c.Query("serviceId"); serviceID != "" {
		id, err := primitive.ObjectIDFromHex(serviceID)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid service ID"))
			return
		}
		filter["serviceIds"] = id
	}
	if minRating := c.Query("minRating"); minRating != "" {
		if parsed, err := parsePositive(minRating); err == nil {
			filter["rating.average"] = bson.M{"$gte": float64(parsed)}
		}
	}
	if search := c.Query("search"); search != "" {
		filter["fullName"] = bson.M{"$regex": search, "$options": "i"}
	}

	providers, total, err := h.Repo.GetAllProviders(ctx, filter, int64(limit), skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch providers"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Providers fetched successfully", gin.H{
		"items":      providers,
		"pagination": paginationMeta(page, limit, total),
	}))
}

func (h *ProviderHandler) GetProviderByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid provider ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	provider, err := h.Repo.GetProviderByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Provider not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Provider fetched successfully", gin.H{
		"provider": provider,
	}))
}

func (h *ProviderHandler) GetProviderByUserID(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid user ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	provider, err := h.Repo.GetProviderByUserID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Provider not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Provider fetched successfully", gin.H{
		"provider": provider,
	}))
}

// GetProvidersByLocation answers the browse page's "providers near me" query.
func (h *ProviderHandler) GetProvidersByLocation(c *gin.Context) {
	filter := bson.M{}
	if region := c.Query("region"); region != "" {
		filter["location.region"] = region
	}
	if city := c.Query("city"); city != "" {
		filter["location.city"] = city
	}
	if district := c.Query("district"); district != "" {
		filter["location.district"] = district
	}
	if len(filter) == 0 {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("At least one of region, city or district is required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	page, limit, skip := pageParams(c)
	providers, total, err := h.Repo.GetAllProviders(ctx, filter, int64(limit), skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch providers"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Providers fetched successfully", gin.H{
		"items":      providers,
		"pagination": paginationMeta(page, limit, total),
	}))
}

func (h *ProviderHandler) SearchProviders(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Search query is required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	providers, err := h.Repo.SearchProviders(ctx, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to search providers"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Search completed", gin.H{
		"items": providers,
	}))
}

func (h *ProviderHandler) UpdateProvider(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid provider ID"))
		return
	}

	var input models.UpdateProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Repo.UpdateProvider(ctx, id, input)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Provider not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Provider updated successfully", gin.H{
		"provider": updated,
	}))
}

func (h *ProviderHandler) DeleteProvider(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid provider ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteProvider(ctx, id); err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Provider deleted successfully", nil))
}

func (h *ProviderHandler) AddWitness(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid provider ID"))
		return
	}

	var input models.AddWitnessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	witness := models.Witness{
		ID:           uuid.New().String(),
		FullName:     input.FullName,
		Phone:        input.Phone,
		IDType:       input.IDType,
		IDNumber:     input.IDNumber,
		Relationship: input.Relationship,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Repo.AddWitness(ctx, id, witness)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Provider not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Witness added successfully", gin.H{
		"provider": updated,
	}))
}

func (h *ProviderHandler) RemoveWitness(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid provider ID"))
		return
	}
	witnessID := c.Param("witnessId")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Repo.RemoveWitness(ctx, id, witnessID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Witness removed successfully", gin.H{
		"provider": updated,
	}))
}

func (h *ProviderHandler) GetProviderStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Repo.GetProviderStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch provider stats"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Provider stats fetched successfully", gin.H{
		"stats": stats,
	}))
}
