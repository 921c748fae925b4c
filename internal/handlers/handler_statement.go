package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/lawfirm_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/dto"
	"github.com/SscSPs/lawfirm_ledger_app/internal/middleware"
)

// statementHandler handles HTTP requests related to monthly income statements
type statementHandler struct {
	statementService portssvc.IncomeStatementSvcFacade
}

// registerStatementRoutes registers routes related to income statements
func registerStatementRoutes(rg *gin.RouterGroup, statementService portssvc.IncomeStatementSvcFacade) {
	h := &statementHandler{statementService: statementService}

	statements := rg.Group("/statements")
	{
		statements.GET("", h.listStatements)
		statements.GET("/:month", h.getStatement)
		statements.POST("/:month/consolidate", h.consolidate)
		statements.POST("/:month/deconsolidate", h.deconsolidate)
	}
}

func monthParam(c *gin.Context) (domain.CompetencyMonth, bool) {
	month, err := domain.ParseCompetencyMonth(c.Param("month"))
	if err != nil {
		badRequest(c, "Invalid competency month. Use YYYY-MM", err)
		return domain.CompetencyMonth{}, false
	}
	return month, true
}

func (h *statementHandler) listStatements(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		badRequest(c, "Query parameter year is required", err)
		return
	}
	statements, err := h.statementService.ListStatements(c.Request.Context(), year)
	if err != nil {
		respondError(c, err, "Failed to list statements")
		return
	}
	c.JSON(http.StatusOK, dto.StatementListResponse{Year: year, Statements: statements})
}

// getStatement returns the stored statement, or computes a draft with ?draft=true.
func (h *statementHandler) getStatement(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	draft, _ := strconv.ParseBool(c.DefaultQuery("draft", "false"))

	var (
		statement *domain.MonthlyIncomeStatement
		err       error
	)
	if draft {
		statement, err = h.statementService.ComputeDraft(c.Request.Context(), month)
	} else {
		statement, err = h.statementService.GetStatement(c.Request.Context(), month)
	}
	if err != nil {
		respondError(c, err, "Failed to get statement")
		return
	}
	c.JSON(http.StatusOK, statement)
}

func (h *statementHandler) consolidate(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	force, err := strconv.ParseBool(c.DefaultQuery("force", "false"))
	if err != nil {
		badRequest(c, "Query parameter force must be a boolean", err)
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to consolidate month", slog.String("month", month.String()), slog.Bool("force", force))

	statement, err := h.statementService.Consolidate(c.Request.Context(), month, force)
	if err != nil {
		respondError(c, err, "Failed to consolidate month")
		return
	}
	c.JSON(http.StatusOK, statement)
}

func (h *statementHandler) deconsolidate(c *gin.Context) {
	month, ok := monthParam(c)
	if !ok {
		return
	}
	statement, err := h.statementService.Deconsolidate(c.Request.Context(), month)
	if err != nil {
		respondError(c, err, "Failed to deconsolidate month")
		return
	}
	c.JSON(http.StatusOK, statement)
}
