package routes

import (
	"psetu-backend/controllers"
	middlewares "psetu-backend/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAuthRoutes(r *gin.Engine, d *controllers.Deps, jwtSecret string) {
	r.POST("/register", controllers.Register(d))
	r.POST("/login", controllers.Login(d))

	r.GET("/profile", middlewares.AuthMiddleware(jwtSecret), controllers.GetProfile(d))
}
