package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxDetectBodyBytes = 10 << 20

func DetectASL(d *Deps) gin.HandlerFunc {
	type DetectInput struct {
		Image     string          `json:"image,omitempty"`
		Landmarks json.RawMessage `json:"landmarks,omitempty"`
	}

	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDetectBodyBytes)

		var input DetectInput
		if err := c.ShouldBindJSON(&input); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
			return
		}

		var forward DetectInput
		switch {
		case input.Image != "":
			forward.Image = input.Image
		case len(input.Landmarks) > 0 && string(input.Landmarks) != "null":
			forward.Landmarks = input.Landmarks
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
			return
		}

		payload, err := json.Marshal(forward)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detect sign"})
			return
		}

		resp, err := d.Predictor.Predict(c.Request.Context(), payload)
		if err != nil {
			d.Logger.WithError(err).Error("asl detection failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to detect sign"})
			return
		}

		contentType := resp.ContentType
		if contentType == "" {
			contentType = "application/json; charset=utf-8"
		}
		c.Data(resp.StatusCode, contentType, resp.Body)
	}
}
