package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/dto"
)

// pendingPaymentHandler handles HTTP requests related to monthly obligations
type pendingPaymentHandler struct {
	pendingService portssvc.PendingPaymentSvcFacade
}

// registerPendingPaymentRoutes registers routes related to pending payments.
// The first segment is the year for month routes and the payment id for /pay.
func registerPendingPaymentRoutes(rg *gin.RouterGroup, pendingService portssvc.PendingPaymentSvcFacade) {
	h := &pendingPaymentHandler{pendingService: pendingService}

	pending := rg.Group("/pending-payments")
	{
		pending.GET("/:ref/:month", h.list)
		pending.POST("/:ref/:month/generate", h.generate)
		pending.POST("/:ref/pay", h.pay)
	}
}

func yearMonthParams(c *gin.Context) (domain.CompetencyMonth, bool) {
	year, err := strconv.Atoi(c.Param("ref"))
	if err == nil {
		var month int
		month, err = strconv.Atoi(c.Param("month"))
		if err == nil {
			var m domain.CompetencyMonth
			m, err = domain.NewCompetencyMonth(year, month)
			if err == nil {
				return m, true
			}
		}
	}
	badRequest(c, fmt.Sprintf("Invalid year/month %s/%s", c.Param("ref"), c.Param("month")), err)
	return domain.CompetencyMonth{}, false
}

func (h *pendingPaymentHandler) list(c *gin.Context) {
	m, ok := yearMonthParams(c)
	if !ok {
		return
	}
	payments, err := h.pendingService.List(c.Request.Context(), int(m.Month), m.Year)
	if err != nil {
		respondError(c, err, "Failed to list pending payments")
		return
	}
	c.JSON(http.StatusOK, dto.PendingPaymentListResponse{Month: m.String(), Payments: payments})
}

func (h *pendingPaymentHandler) generate(c *gin.Context) {
	m, ok := yearMonthParams(c)
	if !ok {
		return
	}
	payments, err := h.pendingService.Generate(c.Request.Context(), int(m.Month), m.Year)
	if err != nil {
		respondError(c, err, "Failed to generate pending payments")
		return
	}
	c.JSON(http.StatusCreated, dto.PendingPaymentListResponse{Month: m.String(), Payments: payments})
}

func (h *pendingPaymentHandler) pay(c *gin.Context) {
	id := c.Param("ref")
	var req dto.PayPendingPaymentRequest
	// An empty body pays the outstanding amount today.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body", err)
		return
	}
	payment, err := req.ToDomain()
	if err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	updated, err := h.pendingService.Pay(c.Request.Context(), id, payment)
	if err != nil {
		respondError(c, err, "Failed to register payment")
		return
	}
	c.JSON(http.StatusOK, updated)
}
