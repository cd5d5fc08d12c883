package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	paymentmethoddomain "github.com/fixbench/fixbench/internal/paymentmethod/domain"
	"github.com/gin-gonic/gin"
)

type createPaymentMethodRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// @Summary      Create Payment Method
// @Description  Create a new payment method
// @Tags         payment_methods
// @Accept       json
// @Produce      json
// @Param        request body createPaymentMethodRequest true "Create Payment Method Request"
// @Success      200  {object}  paymentmethoddomain.PaymentMethod
// @Router       /payment_methods [post]
func (s *Server) CreatePaymentMethod(c *gin.Context) {
	var req createPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentMethodSvc.Create(c.Request.Context(), paymentmethoddomain.CreatePaymentMethodRequest{
		Name: strings.TrimSpace(req.Name),
		Kind: strings.TrimSpace(req.Kind),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Payment Methods
// @Description  List payment methods, optionally restricted to active ones
// @Tags         payment_methods
// @Produce      json
// @Param        active  query  bool  false  "Active Only"
// @Success      200  {object}  paymentmethoddomain.ListPaymentMethodResponse
// @Router       /payment_methods [get]
func (s *Server) ListPaymentMethods(c *gin.Context) {
	activeOnly := false
	if raw := strings.TrimSpace(c.Query("active")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
			return
		}
		activeOnly = parsed
	}

	resp, err := s.paymentMethodSvc.List(c.Request.Context(), paymentmethoddomain.ListPaymentMethodRequest{
		ActiveOnly: activeOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Payment Method
// @Description  Get a payment method by ID
// @Tags         payment_methods
// @Produce      json
// @Param        id  path  string  true  "Payment Method ID"
// @Success      200  {object}  paymentmethoddomain.PaymentMethod
// @Router       /payment_methods/{id} [get]
func (s *Server) GetPaymentMethodByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.paymentMethodSvc.GetByID(c.Request.Context(), paymentmethoddomain.GetPaymentMethodRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updatePaymentMethodRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// @Summary      Update Payment Method
// @Description  Rename a payment method or toggle its active flag
// @Tags         payment_methods
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Payment Method ID"
// @Param        request  body  updatePaymentMethodRequest  true  "Update Payment Method Request"
// @Success      200  {object}  paymentmethoddomain.PaymentMethod
// @Router       /payment_methods/{id} [patch]
func (s *Server) UpdatePaymentMethod(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req updatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentMethodSvc.Update(c.Request.Context(), paymentmethoddomain.UpdatePaymentMethodRequest{
		ID:       id,
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Payment Method
// @Description  Delete a payment method
// @Tags         payment_methods
// @Param        id  path  string  true  "Payment Method ID"
// @Success      204
// @Router       /payment_methods/{id} [delete]
func (s *Server) DeletePaymentMethod(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if _, err := snowflake.ParseString(id); err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.paymentMethodSvc.Delete(c.Request.Context(), paymentmethoddomain.DeletePaymentMethodRequest{ID: id}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
