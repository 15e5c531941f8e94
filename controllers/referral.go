package controllers

import (
	"context"
	"net/http"

	"vertigo-backend/models"
	"vertigo-backend/services"
	"vertigo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReferralIssuer interface {
	CreateInvitation(ctx context.Context, tenantID, referrerID uuid.UUID, invitee services.Invitee) (*services.InvitationResult, error)
	ValidateCode(ctx context.Context, code string) (services.ReferralValidation, error)
	RedeemCode(ctx context.Context, tenantID uuid.UUID, code string, customerID uuid.UUID) (services.ReferralValidation, error)
	EnsurePersonalCode(ctx context.Context, tenantID, customerID uuid.UUID) (string, error)
}

type ReferralLister interface {
	ListByReferrer(ctx context.Context, tenantID, referrerID uuid.UUID) ([]models.Referral, error)
}

type ReferralController struct {
	Referrals ReferralIssuer
	History   ReferralLister
	Log       *zap.Logger
}

type CreateInvitationInput struct {
	ReferrerID uuid.UUID `json:"referrerId" binding:"required"`
	Name       string    `json:"name"`
	Email      string    `json:"email" binding:"omitempty,email"`
	Phone      string    `json:"phone"`
}

type CodeInput struct {
	Code string `json:"code" binding:"required"`
}

type RedeemInput struct {
	Code       string    `json:"code" binding:"required"`
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
}

func (rc *ReferralController) CreateInvitation(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}

	var input CreateInvitationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Email == "" && input.Phone == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Email or phone is required")
		return
	}

	result, err := rc.Referrals.CreateInvitation(c.Request.Context(), tenantID, input.ReferrerID, services.Invitee{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	})
	if err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Validate answers 200 for both valid and invalid codes; the body says which.
func (rc *ReferralController) Validate(c *gin.Context) {
	var input CodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	v, err := rc.Referrals.ValidateCode(c.Request.Context(), input.Code)
	if err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (rc *ReferralController) Redeem(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	var input RedeemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	v, err := rc.Referrals.RedeemCode(c.Request.Context(), tenantID, input.Code, input.CustomerID)
	if err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	if !v.Valid {
		c.JSON(http.StatusUnprocessableEntity, v)
		return
	}
	c.JSON(http.StatusOK, v)
}

// PersonalCode returns (issuing if needed) a customer's standing code.
func (rc *ReferralController) PersonalCode(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	customerID, ok := utils.ParamUUID(c, "id")
	if !ok {
		return
	}

	code, err := rc.Referrals.EnsurePersonalCode(c.Request.Context(), tenantID, customerID)
	if err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

// ListForReferrer returns the invitations a customer has sent.
func (rc *ReferralController) ListForReferrer(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	customerID, ok := utils.ParamUUID(c, "id")
	if !ok {
		return
	}

	referrals, err := rc.History.ListByReferrer(c.Request.Context(), tenantID, customerID)
	if err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	c.JSON(http.StatusOK, referrals)
}
