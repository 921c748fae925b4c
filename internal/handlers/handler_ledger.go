package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/lawfirm_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/lawfirm_ledger_app/internal/dto"
	"github.com/SscSPs/lawfirm_ledger_app/internal/middleware"
)

// ledgerHandler handles HTTP requests related to ledger postings
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// registerLedgerRoutes registers routes related to the ledger
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/postings", h.listPostings)
		ledger.POST("/postings", h.createPosting)
		ledger.GET("/postings/:id", h.getPosting)
		ledger.PATCH("/postings/:id", h.updatePosting)
		ledger.DELETE("/postings/:id", h.deletePosting)
		ledger.GET("/duplicates", h.listDuplicates)
		ledger.POST("/duplicates/resolve", h.resolveDuplicates)
		ledger.POST("/capital-contributions", h.registerCapitalContribution)
	}
}

func (h *ledgerHandler) listPostings(c *gin.Context) {
	var params dto.ListPostingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	filter, err := params.ToFilter()
	if err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	postings, next, err := h.ledgerService.ListPostings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list postings")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPostingsResponse(postings, next))
}

func (h *ledgerHandler) getPosting(c *gin.Context) {
	posting, err := h.ledgerService.GetPosting(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get posting")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingResponse(*posting))
}

func (h *ledgerHandler) createPosting(c *gin.Context) {
	var req dto.CreatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	input, err := req.ToDomain()
	if err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	posting, err := h.ledgerService.CreateManualPosting(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Failed to create posting")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Manual posting created", slog.String("posting_id", posting.ID))
	c.JSON(http.StatusCreated, dto.ToPostingResponse(*posting))
}

func (h *ledgerHandler) updatePosting(c *gin.Context) {
	var req dto.UpdatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	update, err := req.ToDomain()
	if err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	posting, err := h.ledgerService.UpdateManualPosting(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err, "Failed to update posting")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingResponse(*posting))
}

func (h *ledgerHandler) deletePosting(c *gin.Context) {
	if err := h.ledgerService.DeleteManualPosting(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete posting")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ledgerHandler) listDuplicates(c *gin.Context) {
	groups, err := h.ledgerService.FindDuplicates(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to check ledger integrity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (h *ledgerHandler) resolveDuplicates(c *gin.Context) {
	removed, err := h.ledgerService.ResolveDuplicates(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to resolve duplicate postings")
		return
	}
	c.JSON(http.StatusOK, dto.ResolveDuplicatesResponse{Removed: removed})
}

func (h *ledgerHandler) registerCapitalContribution(c *gin.Context) {
	var req dto.CapitalContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	amount, date, err := req.Parse()
	if err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	posting, err := h.ledgerService.RegisterCapitalContribution(c.Request.Context(), req.PartnerID, amount, date)
	if err != nil {
		respondError(c, err, "Failed to register capital contribution")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPostingResponse(*posting))
}
