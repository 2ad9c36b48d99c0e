package controllers

import (
	"errors"
	"net/http"

	"checkout-service/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardController serves read-only lookups over the ledger.
type DashboardController struct {
	Ledger repository.LedgerRepository
	Logger *zap.Logger
}

func (dc *DashboardController) GetOrder(c *gin.Context) {
	order, err := dc.Ledger.GetOrder(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		dc.Logger.Error("Order lookup failed", zap.String("order_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (dc *DashboardController) GetCustomer(c *gin.Context) {
	customer, err := dc.Ledger.GetCustomer(c.Request.Context(), c.Param("email"))
	if errors.Is(err, repository.ErrCustomerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		dc.Logger.Error("Customer lookup failed", zap.String("email", c.Param("email")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (dc *DashboardController) ListCustomerOrders(c *gin.Context) {
	orders, err := dc.Ledger.ListCustomerOrders(c.Request.Context(), c.Param("email"))
	if err != nil {
		dc.Logger.Error("Customer order query failed", zap.String("email", c.Param("email")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
