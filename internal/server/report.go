package server

import (
	"net/http"
	"strings"

	"github.com/fixbench/fixbench/internal/report"
	"github.com/gin-gonic/gin"
)

// @Summary      Revenue Summary
// @Description  Aggregate billed, collected and outstanding amounts over invoices
// @Tags         reports
// @Produce      json
// @Param        branch_id  query  string  false  "Branch ID"
// @Param        from       query  string  false  "From"
// @Param        to         query  string  false  "To"
// @Success      200  {object}  report.RevenueSummaryResponse
// @Router       /reports/revenue_summary [get]
func (s *Server) RevenueSummaryReport(c *gin.Context) {
	var query struct {
		BranchID string `form:"branch_id"`
		From     string `form:"from"`
		To       string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	resp, err := s.reportSvc.RevenueSummary(c.Request.Context(), report.RevenueSummaryRequest{
		BranchID: strings.TrimSpace(query.BranchID),
		From:     from,
		To:       to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
