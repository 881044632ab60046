package routes

import (
	"time"

	"psetu-backend/controllers"
	middlewares "psetu-backend/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	Origins   []string
	JWTSecret string
}

// NewRouter builds the engine with middleware and every route mounted.
func NewRouter(d *controllers.Deps, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestLogger(d.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	SetupRoutes(r, d, opts)
	return r
}

func SetupRoutes(r *gin.Engine, d *controllers.Deps, opts Options) {
	r.GET("/", controllers.Home)
	r.GET("/healthz", controllers.Health(d))

	SetupAuthRoutes(r, d, opts.JWTSecret)
	SetupDonationRoutes(r, d)
	SetupPaymentRoutes(r, d)

	api := r.Group("/api")
	api.POST("/contact", controllers.SubmitContact(d))
	api.POST("/detect-asl", controllers.DetectASL(d))
}

func SetupDonationRoutes(r *gin.Engine, d *controllers.Deps) {
	donations := r.Group("/donations/programs")
	donations.GET("", controllers.ListPrograms(d))
	donations.POST("", controllers.CreateProgram(d))
	donations.POST("/image", controllers.UploadProgramImage(d))
	donations.GET("/:id", controllers.GetProgram(d))
}

func SetupPaymentRoutes(r *gin.Engine, d *controllers.Deps) {
	r.POST("/initiate-payment", controllers.InitiatePayment(d))
	r.POST("/payment-status", controllers.PaymentStatus(d))
	r.POST("/payment-callback", controllers.PaymentCallback(d))
}
