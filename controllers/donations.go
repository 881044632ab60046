package controllers

import (
	"errors"
	"net/http"

	"psetu-backend/services"

	"github.com/gin-gonic/gin"
)

// maxImageBytes bounds program image uploads.
const maxImageBytes = 5 << 20

func CreateProgram(d *Deps) gin.HandlerFunc {
	type ProgramInput struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		GoalAmount  Amount `json:"goalAmount" binding:"required"`
		ImageURL    string `json:"imageUrl"`
		Category    string `json:"category"`
		Location    string `json:"location"`
		Urgent      bool   `json:"urgent"`
	}

	return func(c *gin.Context) {
		var input ProgramInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
			return
		}

		program, err := d.Donations.CreateProgram(c.Request.Context(), services.ProgramInput{
			Title:       input.Title,
			Description: input.Description,
			GoalAmount:  float64(input.GoalAmount),
			ImageURL:    input.ImageURL,
			Category:    input.Category,
			Location:    input.Location,
			Urgent:      input.Urgent,
		})
		switch {
		case errors.Is(err, services.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		case errors.Is(err, services.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Goal amount must not be negative"})
		case err != nil:
			d.Logger.WithError(err).Error("create program failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		default:
			c.JSON(http.StatusCreated, gin.H{"success": true, "program": program})
		}
	}
}

func ListPrograms(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		programs, err := d.Donations.ListPrograms(c.Request.Context())
		if err != nil {
			d.Logger.WithError(err).Error("list programs failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "programs": programs})
	}
}

func GetProgram(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		program, err := d.Donations.GetProgram(c.Request.Context(), c.Param("id"))
		switch {
		case errors.Is(err, services.ErrInvalidID):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid program id"})
		case errors.Is(err, services.ErrProgramNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Program not found"})
		case err != nil:
			d.Logger.WithError(err).Error("get program failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		default:
			c.JSON(http.StatusOK, gin.H{"success": true, "program": program})
		}
	}
}

func UploadProgramImage(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+(1<<20))

		file, header, err := c.Request.FormFile("image")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "message": "Image too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No image provided"})
			return
		}
		defer file.Close()

		if header.Size > maxImageBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "message": "Image too large"})
			return
		}

		url, err := d.Donations.UploadImage(c.Request.Context(), file, header.Header.Get("Content-Type"))
		switch {
		case errors.Is(err, services.ErrUploadsDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Image uploads are not configured"})
		case errors.Is(err, services.ErrUnsupportedImage):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unsupported image type"})
		case err != nil:
			d.Logger.WithError(err).Error("program image upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		default:
			c.JSON(http.StatusCreated, gin.H{"success": true, "imageUrl": url})
		}
	}
}
