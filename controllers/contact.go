package controllers

import (
	"errors"
	"net/http"

	"psetu-backend/services"

	"github.com/gin-gonic/gin"
)

func SubmitContact(d *Deps) gin.HandlerFunc {
	type ContactInput struct {
		FullName string `json:"fullName" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Subject  string `json:"subject" binding:"required"`
		Category string `json:"category" binding:"required"`
		Message  string `json:"message" binding:"required"`
	}

	return func(c *gin.Context) {
		var input ContactInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
			return
		}

		_, err := d.Contacts.Submit(c.Request.Context(), services.ContactInput{
			FullName: input.FullName,
			Email:    input.Email,
			Subject:  input.Subject,
			Category: input.Category,
			Message:  input.Message,
		})
		switch {
		case errors.Is(err, services.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		case err != nil:
			d.Logger.WithError(err).Error("contact submit failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error. Please try again later."})
		default:
			c.JSON(http.StatusCreated, gin.H{"message": "Contact message saved successfully."})
		}
	}
}
