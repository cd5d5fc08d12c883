package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	branchdomain "github.com/fixbench/fixbench/internal/branch/domain"
	"github.com/fixbench/fixbench/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createBranchRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// @Summary      Create Branch
// @Description  Create a new branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        request body createBranchRequest true "Create Branch Request"
// @Success      200  {object}  branchdomain.Branch
// @Router       /branches [post]
func (s *Server) CreateBranch(c *gin.Context) {
	var req createBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.branchSvc.Create(c.Request.Context(), branchdomain.CreateBranchRequest{
		Name:    strings.TrimSpace(req.Name),
		Code:    strings.TrimSpace(req.Code),
		Address: strings.TrimSpace(req.Address),
		Phone:   strings.TrimSpace(req.Phone),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Branches
// @Description  List branches, optionally restricted to active ones
// @Tags         branches
// @Produce      json
// @Param        code        query  string  false  "Branch Code"
// @Param        active      query  bool    false  "Active Only"
// @Param        page_token  query  string  false  "Page Token"
// @Param        page_size   query  int     false  "Page Size"
// @Success      200  {object}  branchdomain.ListBranchResponse
// @Router       /branches [get]
func (s *Server) ListBranches(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Code   string `form:"code"`
		Active string `form:"active"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	activeOnly := false
	if raw := strings.TrimSpace(query.Active); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
			return
		}
		activeOnly = parsed
	}

	resp, err := s.branchSvc.List(c.Request.Context(), branchdomain.ListBranchRequest{
		PageToken:  strings.TrimSpace(query.PageToken),
		PageSize:   int32(query.PageSize),
		Code:       strings.TrimSpace(query.Code),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Branch
// @Description  Get a branch by ID
// @Tags         branches
// @Produce      json
// @Param        id  path  string  true  "Branch ID"
// @Success      200  {object}  branchdomain.Branch
// @Router       /branches/{id} [get]
func (s *Server) GetBranchByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.branchSvc.GetByID(c.Request.Context(), branchdomain.GetBranchRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateBranchRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

// @Summary      Update Branch
// @Description  Update a branch's details or active flag
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "Branch ID"
// @Param        request  body  updateBranchRequest  true  "Update Branch Request"
// @Success      200  {object}  branchdomain.Branch
// @Router       /branches/{id} [patch]
func (s *Server) UpdateBranch(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req updateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.branchSvc.Update(c.Request.Context(), branchdomain.UpdateBranchRequest{
		ID:       id,
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Branch
// @Description  Delete a branch
// @Tags         branches
// @Param        id  path  string  true  "Branch ID"
// @Success      204
// @Router       /branches/{id} [delete]
func (s *Server) DeleteBranch(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.branchSvc.Delete(c.Request.Context(), branchdomain.DeleteBranchRequest{ID: id}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
