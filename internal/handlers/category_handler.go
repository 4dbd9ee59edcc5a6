package handlers

import (
	"context"
	"fmt"
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

const categoryListCacheKey = "catalog:categories"

type CategoryHandler struct {
	Repo repository.CategoryRepository
}

func NewCategoryHandler(db *mongo.Database) *CategoryHandler {
	return &CategoryHandler{Repo: repository.NewCategoryRepository(db)}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	// Role check is handled by RoleMiddleware in routes.go
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}
	if err := validate.Struct(category); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse(err.Error()))
		return
	}

	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	created, err := h.Repo.CreateCategory(ctx, category)
	if err != nil {
		c.JSON(http.StatusConflict, utils.ErrorResponse(err.Error()))
		return
	}
	utils.InvalidateCache(ctx, categoryListCacheKey)

	c.JSON(http.StatusCreated, utils.SuccessResponse("Category created successfully", gin.H{
		"category": created,
	}))
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	page, limit, skip := pageParams(c)
	filter := bson.M{}
	if search := c.Query("search"); search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}

	// The unfiltered first page is by far the hottest read; serve it from
	// cache when possible.
	cacheable := len(filter) == 0 && page == 1 && limit == 10
	if cacheable {
		var cached gin.H
		if utils.GetCachedJSON(ctx, categoryListCacheKey, &cached) {
			c.JSON(http.StatusOK, utils.SuccessResponse("Categories fetched successfully", cached))
			return
		}
	}

	categories, total, err := h.Repo.GetAllCategories(ctx, filter, int64(limit), skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("failed to fetch categories"))
		return
	}

	res := gin.H{
		"items":      categories,
		"pagination": paginationMeta(page, limit, total),
	}
	if cacheable {
		utils.CacheJSON(ctx, categoryListCacheKey, res, 5*time.Minute)
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Categories fetched successfully", res))
}

func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid category ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	category, err := h.Repo.GetCategoryByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Category not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Category fetched successfully", gin.H{
		"category": category,
	}))
}

func (h *CategoryHandler) GetCategoryWithServices(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid category ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.Repo.GetCategoryWithServices(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Category not found"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Category fetched successfully", result))
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid category ID"))
		return
	}

	var input models.UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	updated, err := h.Repo.UpdateCategory(ctx, id, input)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Category not found"))
		return
	}
	utils.InvalidateCache(ctx, categoryListCacheKey)

	c.JSON(http.StatusOK, utils.SuccessResponse("Category updated successfully", gin.H{
		"category": updated,
	}))
}

// DeleteCategory cascades to the category's services. The response reports
// how many services were removed so the dashboard can show it.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid category ID"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	deletedServices, err := h.Repo.DeleteCategory(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.ErrorResponse(err.Error()))
		return
	}
	utils.InvalidateCache(ctx, categoryListCacheKey, serviceListCacheKey)

	c.JSON(http.StatusOK, utils.SuccessResponse(
		fmt.Sprintf("Category deleted along with %d associated services", deletedServices),
		gin.H{"deletedServices": deletedServices},
	))
}

func (h *CategoryHandler) GetCategoryStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.Repo.GetCategoryStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to fetch category stats"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Category stats fetched successfully", gin.H{
		"stats": stats,
	}))
}
