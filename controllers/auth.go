package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"vertigo-backend/models"
	"vertigo-backend/repository"
	"vertigo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserStore interface {
	Register(ctx context.Context, tenant *models.Tenant, owner *models.User) error
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)
	TouchLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type AuthController struct {
	Users     UserStore
	JWTSecret string
	JWTExpiry time.Duration
	Log       *zap.Logger
}

type RegisterInput struct {
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Password   string `json:"password" binding:"required,min=8"`
	TenantName string `json:"tenantName" binding:"required"`
	Vertical   string `json:"vertical"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	tenant := &models.Tenant{Name: input.TenantName, Vertical: input.Vertical, DefaultPaymentTermDays: 14}
	owner := &models.User{
		Email:    strings.ToLower(input.Email),
		Phone:    utils.CleanPhone(input.Phone),
		Name:     input.Name,
		Password: input.Password, // hashed in BeforeCreate
		Role:     "owner",
		IsActive: true,
	}
	if err := ac.Users.Register(c.Request.Context(), tenant, owner); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
			return
		}
		ac.Log.Error("register", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	ac.issueToken(c, http.StatusCreated, owner)
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	} else {
		identifier = utils.CleanPhone(identifier)
	}

	user, err := ac.Users.FindByIdentifier(c.Request.Context(), identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if !user.IsActive || !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := ac.Users.TouchLogin(c.Request.Context(), user.ID, time.Now()); err != nil {
		ac.Log.Warn("update last login", zap.Error(err))
	}

	ac.issueToken(c, http.StatusOK, user)
}

func (ac *AuthController) Me(c *gin.Context) {
	raw, _ := c.Get(utils.ContextUserID)
	sub, _ := raw.(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user")
		return
	}

	user, err := ac.Users.Get(c.Request.Context(), userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

func (ac *AuthController) issueToken(c *gin.Context, status int, user *models.User) {
	token, err := utils.GenerateToken(ac.JWTSecret, ac.JWTExpiry, user.ID.String(), user.TenantID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.SetCookie("token", token, int(ac.JWTExpiry.Seconds()), "/", "", true, true)
	c.JSON(status, gin.H{
		"token": token,
		"user":  userView(user),
	})
}

func userView(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"phone":    user.Phone,
		"name":     user.Name,
		"tenantId": user.TenantID,
		"role":     user.Role,
	}
}
