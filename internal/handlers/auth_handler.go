package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/developia-II/servicehub-backend/internal/models"
	"github.com/developia-II/servicehub-backend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthHandler struct {
	DB *mongo.Database
}

func NewAuthHandler(db *mongo.Database) *AuthHandler {
	return &AuthHandler{DB: db}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	collection := h.DB.Collection("users")
	count, _ := collection.CountDocuments(ctx, bson.M{"email": input.Email})
	if count > 0 {
		c.JSON(http.StatusConflict, utils.ErrorResponse("An account with this email already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create account"))
		return
	}

	user := models.User{
		Name:      input.Name,
		Email:     input.Email,
		Password:  string(hashed),
		Role:      input.Role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	res, err := collection.InsertOne(ctx, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create account"))
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, utils.SuccessResponse("Account created successfully", gin.H{
		"user": user,
	}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := h.DB.Collection("users").FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid email or password"))
		return
	}

	accessToken, err := utils.GenerateToken(user.ID.Hex(), user.Role, accessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to issue token"))
		return
	}
	refreshToken, err := utils.GenerateToken(user.ID.Hex(), user.Role, refreshTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Login successful", gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}))
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid json payload"))
		return
	}

	claims, err := utils.VerifyToken(input.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid refresh token"))
		return
	}

	accessToken, err := utils.GenerateToken(claims.UserID, claims.Role, accessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Token refreshed", gin.H{
		"accessToken": accessToken,
	}))
}
