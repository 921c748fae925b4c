package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/dto"
	"github.com/SscSPs/lawfirm_ledger_app/internal/middleware"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	chartService     portssvc.ChartOfAccountsReaderSvc
}

// registerReportingRoutes registers routes related to financial reports and the chart
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, chartService portssvc.ChartOfAccountsReaderSvc) {
	h := &reportingHandler{reportingService: reportingService, chartService: chartService}

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/annual", h.getAnnualSummary)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:code", h.getAccount)
	}
}

// asOfParam parses the asOf query parameter, defaulting to today.
func asOfParam(c *gin.Context) (time.Time, string, bool) {
	asOfStr := c.DefaultQuery("asOf", time.Now().UTC().Format("2006-01-02"))
	asOf, err := dto.ParseDate(asOfStr)
	if err != nil {
		badRequest(c, "Invalid date format. Use YYYY-MM-DD", err)
		return time.Time{}, "", false
	}
	return asOf, asOfStr, true
}

func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	asOf, asOfStr, ok := asOfParam(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("asOf", asOfStr))
	logger.Info("Received request to generate trial balance report")

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate trial balance report")
		return
	}
	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(report.Rows)))
	c.JSON(http.StatusOK, dto.TrialBalanceResponse{AsOf: asOfStr, TrialBalanceReport: report})
}

func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	asOf, asOfStr, ok := asOfParam(c)
	if !ok {
		return
	}
	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate balance sheet report")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report, asOfStr))
}

func (h *reportingHandler) getAnnualSummary(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		badRequest(c, "Query parameter year is required", err)
		return
	}
	summary, err := h.reportingService.AnnualSummary(c.Request.Context(), year)
	if err != nil {
		respondError(c, err, "Failed to generate annual summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *reportingHandler) listAccounts(c *gin.Context) {
	accounts, err := h.chartService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *reportingHandler) getAccount(c *gin.Context) {
	account, err := h.chartService.GetAccount(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}
