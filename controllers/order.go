package controllers

import (
	"context"
	"errors"
	"net/http"

	"vertigo-backend/models"
	"vertigo-backend/repository"
	"vertigo-backend/services"
	"vertigo-backend/utils"
	"vertigo-backend/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderFinder interface {
	Get(ctx context.Context, tenantID, orderID uuid.UUID) (*models.Order, error)
	History(ctx context.Context, tenantID, orderID uuid.UUID) ([]models.OrderStatusChange, error)
}

type SettingsReader interface {
	Settings(ctx context.Context, tenantID uuid.UUID) (models.TenantSettings, error)
}

type StatusChanger interface {
	ApplyStatusChange(ctx context.Context, tenantID, orderID uuid.UUID, next models.OrderStatus, meta services.ChangeMetadata, settings models.TenantSettings) (*services.StatusChangeResult, error)
}

type OrderController struct {
	Orders   OrderFinder
	Tenants  SettingsReader
	Workflow StatusChanger
	Log      *zap.Logger
}

type StatusOption struct {
	Status models.OrderStatus `json:"status"`
	Label  string             `json:"label"`
}

type WorkflowResponse struct {
	Status     models.OrderStatus `json:"status"`
	Label      string             `json:"label"`
	Progress   int                `json:"progress"`
	Terminal   bool               `json:"terminal"`
	NextStatus []StatusOption     `json:"nextStatuses"`
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type UpdateStatusResponse struct {
	*services.StatusChangeResult
	Workflow WorkflowResponse `json:"workflow"`
	Warnings []string         `json:"warnings,omitempty"`
}

func describe(status models.OrderStatus) WorkflowResponse {
	next := workflow.NextStatuses(status)
	options := make([]StatusOption, 0, len(next))
	for _, s := range next {
		options = append(options, StatusOption{Status: s, Label: workflow.Label(s)})
	}
	return WorkflowResponse{
		Status:     status,
		Label:      workflow.Label(status),
		Progress:   workflow.StatusProgress(status),
		Terminal:   workflow.IsTerminal(status),
		NextStatus: options,
	}
}

// GetWorkflow describes where an order stands and what it can move to.
func (oc *OrderController) GetWorkflow(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	orderID, ok := utils.ParamUUID(c, "id")
	if !ok {
		return
	}

	order, err := oc.Orders.Get(c.Request.Context(), tenantID, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Order not found")
			return
		}
		respondServiceError(c, oc.Log, err)
		return
	}

	c.JSON(http.StatusOK, describe(order.Status))
}

// UpdateStatus applies a status transition (PATCH /api/orders/:id/status).
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	orderID, ok := utils.ParamUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	next, err := workflow.ParseStatus(input.Status)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	settings, err := oc.Tenants.Settings(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			respondServiceError(c, oc.Log, err)
			return
		}
		settings = models.TenantSettings{}
	}

	userID, _ := c.Get(utils.ContextUserID)
	changedBy, _ := userID.(string)

	result, err := oc.Workflow.ApplyStatusChange(ctx, tenantID, orderID, next,
		services.ChangeMetadata{ChangedBy: changedBy, Note: input.Note}, settings)
	if err != nil {
		respondServiceError(c, oc.Log, err)
		return
	}

	c.JSON(http.StatusOK, UpdateStatusResponse{
		StatusChangeResult: result,
		Workflow:           describe(result.Order.Status),
		Warnings:           result.Warnings(),
	})
}

func (oc *OrderController) GetHistory(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	orderID, ok := utils.ParamUUID(c, "id")
	if !ok {
		return
	}

	history, err := oc.Orders.History(c.Request.Context(), tenantID, orderID)
	if err != nil {
		respondServiceError(c, oc.Log, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// ListStatuses describes every status, for building status pickers.
func (oc *OrderController) ListStatuses(c *gin.Context) {
	statuses := workflow.Statuses()
	out := make([]WorkflowResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, describe(s))
	}
	c.JSON(http.StatusOK, out)
}
