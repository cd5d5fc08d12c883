package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fixbench/fixbench/internal/auditcontext"
	repairdomain "github.com/fixbench/fixbench/internal/repair/domain"
	"github.com/gin-gonic/gin"
)

// @Summary      Get Service
// @Description  Get a repair job snapshot with its faults, parts and payments
// @Tags         services
// @Produce      json
// @Param        id  path  string  true  "Service ID"
// @Success      200  {object}  repairdomain.ServiceSnapshot
// @Router       /services/{id} [get]
func (s *Server) GetServiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.repairSvc.GetSnapshot(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateServiceCostRequest struct {
	ActualCost int64 `json:"actual_cost"`
}

// @Summary      Update Service Cost
// @Description  Set the actual repair cost so a linked invoice can reconcile
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "Service ID"
// @Param        request  body  updateServiceCostRequest  true  "Update Cost Request"
// @Success      200  {object}  repairdomain.ServiceSnapshot
// @Router       /services/{id}/cost [patch]
func (s *Server) UpdateServiceCost(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req updateServiceCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := auditcontext.WithServiceID(c.Request.Context(), id)
	resp, err := s.repairSvc.UpdateCost(ctx, repairdomain.UpdateCostRequest{
		ServiceID:  id,
		ActualCost: req.ActualCost,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
