package handler

import (
	"net/http"

	"github.com/shemaparfait19/centurysoapv2/internal/apierror"
	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Search powers the type-ahead on the sale form: partial name or phone match.
func (h *CustomersHandler) Search(c *gin.Context) {
	var filter dto.CustomerFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) Upsert(c *gin.Context) {
	var req dto.UpsertCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	customer, err := h.svc.Upsert(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CustomerResponse{
		ID:      customer.ID.String(),
		Name:    customer.Name,
		Phone:   customer.Phone,
		Email:   customer.Email,
		Address: customer.Address,
	})
}
