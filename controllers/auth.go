package controllers

import (
	"errors"
	"net/http"

	middlewares "psetu-backend/middleware"
	"psetu-backend/services"

	"github.com/gin-gonic/gin"
)

func Register(d *Deps) gin.HandlerFunc {
	type RegisterInput struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}

	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
			return
		}

		err := d.Auth.Register(c.Request.Context(), services.RegisterInput{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
			Password:  input.Password,
		})
		switch {
		case errors.Is(err, services.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
		case errors.Is(err, services.ErrUserExists):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists"})
		case errors.Is(err, services.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at most 72 bytes"})
		case err != nil:
			d.Logger.WithError(err).Error("register failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		default:
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "User registered successfully"})
		}
	}
}

func Login(d *Deps) gin.HandlerFunc {
	type LoginInput struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
			return
		}

		result, err := d.Auth.Login(c.Request.Context(), input.Email, input.Password)
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User not found"})
			return
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid credentials"})
			return
		case err != nil:
			d.Logger.WithError(err).Error("login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}

		resp := gin.H{"success": true, "message": "Login successful", "user": result.User}
		if result.Token != "" {
			resp["token"] = result.Token
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     "token",
				Value:    result.Token,
				Path:     "/",
				HttpOnly: true,
				Secure:   c.Request.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.JSON(http.StatusOK, resp)
	}
}

func GetProfile(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := d.Auth.Profile(c.Request.Context(), c.GetString(middlewares.UserIDKey))
		switch {
		case errors.Is(err, services.ErrInvalidID), errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not found"})
			return
		case err != nil:
			d.Logger.WithError(err).Error("profile lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}
