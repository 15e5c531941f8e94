package controllers

import (
	"context"
	"net/http"
	"time"

	"vertigo-backend/models"
	"vertigo-backend/services"
	"vertigo-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TemplateInvoiceLister interface {
	ListByTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]models.Invoice, error)
}

type RecurringController struct {
	Processor services.DueTemplateProcessor
	Invoices  TemplateInvoiceLister
	Log       *zap.Logger
}

type ProcessRecurringInput struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to today
}

// Process runs the recurring invoice job once. It is meant for a daily
// external trigger; callers must not overlap invocations.
func (rc *RecurringController) Process(c *gin.Context) {
	var input ProcessRecurringInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
	}

	today := time.Now()
	if input.Date != "" {
		d, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		today = d
	}

	summary := rc.Processor.ProcessDueTemplates(c.Request.Context(), today)
	c.JSON(http.StatusOK, summary)
}

func (rc *RecurringController) ListInvoices(c *gin.Context) {
	tenantID, ok := utils.TenantID(c)
	if !ok {
		return
	}
	templateID, ok := utils.ParamUUID(c, "id")
	if !ok {
		return
	}

	invoices, err := rc.Invoices.ListByTemplate(c.Request.Context(), tenantID, templateID)
	if err != nil {
		respondServiceError(c, rc.Log, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}
