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

const serviceListCacheKey = "catalog:services"

type ServiceHandler struct {
	Repo         repository.ServiceRepository
	CategoryRepo repository.CategoryRepository
}

func NewServiceHandler(db *mongo.Database) *ServiceHandler {
	return &ServiceHandler{
		Repo:         repository.NewServiceRepository(db),
		CategoryRepo: repository.NewCategoryRepository(db),
	}
}

func (h *ServiceHandler) CreateService(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(service); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	service.CreatedAt = time.Now()
	service.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateService(ctx, service)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse(err.Error()))
		return
	}
	utils.InvalidateCache(ctx, serviceListCacheKey, categoryListCacheKey)

	c.JSON(http.StatusCreated, utils.SuccessResponse("Service created successfully", gin.H{
		"service": created,
	}))
}

// sortParam maps the dashboard sort keys onto Mongo sort documents. Unknown
// keys fall back to newest-first.
func sortParam(key string) bson.D {
	switch key {
	case "title":
		return bson.D{{Key: "title", Value: 1}}
	case "title-desc":
		return bson.D{{Key: "title", Value: -1}}
	case "popular":
		return bson.D{{Key: "popular", Value: -1}, {Key: "createdAt", Value: -1}}
	case "oldest":
		return bson.D{{Key: "createdAt", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (h *ServiceHandler) GetAllServices(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	page, limit, skip := pageParams(c)
	filter := bson.M{}

	if categoryID := c.Query("category"); categoryID != "" {
		id, err := primitive.ObjectIDFromHex(categoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid category ID"))
			return
		}
		filter["categoryId"] = id
	}
	if popular := c.Query("popular"); popular != "" {
		filter["popular"] = popular == "true"
	}
	if search := c.Query("search"); search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	sortKey := c.Query("sort")

	cacheable := len(filter) == 0 && sortKey == "" && page == 1 && limit == 10
	if cacheable {
		var cached gin.H
		if utils.GetCachedJSON(ctx, serviceListCacheKey, &cached) {
			c.JSON(http.StatusOK, utils.SuccessResponse("Services fetched successfully", cached))
			return
		}
	}

	services, total, err := h.Repo.GetAllServices(ctx, filter, int64(limit), skip, sortParam(sortKey))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch services"))
		return
	}

	res := gin.H{
		"items":      services,
		"pagination": paginationMeta(page, limit, total),
	}
	if cacheable {
		utils.CacheJSON(ctx, serviceListCacheKey, res, 5*time.Minute)
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Services fetched successfully", res))
}

func (h *ServiceHandler) GetServiceByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid service ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	service, err := h.Repo.GetServiceByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Service not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Service fetched successfully", gin.H{
		"service": service,
	}))
}

func (h *ServiceHandler) SearchServices(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Search query is required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	services, err := h.Repo.SearchServices(ctx, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to search services"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Search completed", gin.H{
		"items": services,
	}))
}

func (h *ServiceHandler) UpdateService(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid service ID"))
		return
	}

	var input models.UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Repo.UpdateService(ctx, id, input)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse(err.Error()))
		return
	}
	utils.InvalidateCache(ctx, serviceListCacheKey)

	c.JSON(http.StatusOK, utils.SuccessResponse("Service updated successfully", gin.H{
		"service": updated,
	}))
}

func (h *ServiceHandler) DeleteService(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid service ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.DeleteService(ctx, id); err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse(err.Error()))
		return
	}
	utils.InvalidateCache(ctx, serviceListCacheKey, categoryListCacheKey)

	c.JSON(http.StatusOK, utils.SuccessResponse("Service deleted successfully", nil))
}

func (h *ServiceHandler) GetServiceStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Repo.GetServiceStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch service stats"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Service stats fetched successfully", gin.H{
		"stats": stats,
	}))
}

// GenerateDescription drafts a service description with Gemini for the admin
// dashboard editor.
func (h *ServiceHandler) GenerateDescription(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid service ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	service, err := h.Repo.GetServiceByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Service not found"))
		return
	}

	categoryName := ""
	if category, err := h.CategoryRepo.GetCategoryByID(ctx, service.CategoryID); err == nil {
		categoryName = category.Name
	}

	description, err := utils.GenerateServiceDescription(ctx, service.Title, categoryName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to generate description: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Description generated", gin.H{
		"description": description,
	}))
}
