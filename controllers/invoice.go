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

type OrderInvoicer interface {
	CreateInvoiceFromOrder(ctx context.Context, tenantID, orderID uuid.UUID, opts services.InvoiceOptions) (services.InvoiceResult, error)
}

type OrderInvoiceLister interface {
	ListByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]models.Invoice, error)
}

type InvoiceController struct {
	Invoicer OrderInvoicer
	Invoices OrderInvoiceLister
	Log      *zap.Logger
}

type CreateOrderInvoiceInput struct {
	Type      string `json:"type" binding:"omitempty,oneof=invoice proforma"`
	SendEmail bool   `json:"sendEmail"`
}

// CreateFromOrder bills an order (POST /api/orders/:id/invoices).
func (ic *InvoiceController) CreateFromOrder(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	orderID, ok := utils.ParamUUID(c, "id")
	if !ok {
		return
	}

	var input CreateOrderInvoiceInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}

	result, err := ic.Invoicer.CreateInvoiceFromOrder(c.Request.Context(), tenantID, orderID, services.InvoiceOptions{
		Type:      models.InvoiceType(input.Type),
		SendEmail: input.SendEmail,
	})
	if err != nil {
		respondServiceError(c, ic.Log, err)
		return
	}
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (ic *InvoiceController) ListForOrder(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	orderID, ok := utils.ParamUUID(c, "id")
	if !ok {
		return
	}

	invoices, err := ic.Invoices.ListByOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		respondServiceError(c, ic.Log, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}
