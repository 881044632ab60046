package controllers

import (
	"errors"
	"net/http"

	"psetu-backend/services"

	"github.com/gin-gonic/gin"
)

func InitiatePayment(d *Deps) gin.HandlerFunc {
	type InitiateInput struct {
		Amount    Amount `json:"amount" binding:"required"`
		ProductID string `json:"productId" binding:"required"`
	}

	return func(c *gin.Context) {
		var input InitiateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, "Error sending data")
			return
		}

		result, err := d.Payments.Initiate(c.Request.Context(), float64(input.Amount), input.ProductID)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidPayment) {
				d.Logger.WithError(err).Error("payment initiation failed")
			}
			c.JSON(http.StatusBadRequest, "Error sending data")
			return
		}

		c.JSON(http.StatusOK, gin.H{"url": result.URL, "form": result.Form})
	}
}

func PaymentStatus(d *Deps) gin.HandlerFunc {
	type StatusInput struct {
		ProductID string `json:"product_id" binding:"required"`
	}

	return func(c *gin.Context) {
		var input StatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Transaction not found"})
			return
		}

		_, err := d.Payments.CheckStatus(c.Request.Context(), input.ProductID)
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Transaction not found"})
		case err != nil:
			d.Logger.WithError(err).Error("payment status check failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Transaction status updated successfully"})
		}
	}
}

func PaymentCallback(d *Deps) gin.HandlerFunc {
	type CallbackInput struct {
		Data string `json:"data" binding:"required"`
	}

	return func(c *gin.Context) {
		var input CallbackInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment token"})
			return
		}

		status, err := d.Payments.HandleCallback(c.Request.Context(), input.Data)
		switch {
		case errors.Is(err, services.ErrInvalidCallback):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment token"})
		case errors.Is(err, services.ErrTransactionNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Transaction not found"})
		case err != nil:
			d.Logger.WithError(err).Error("payment callback failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Transaction status updated successfully", "status": status})
		}
	}
}
