package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sm8ta/webike_rental_microservice/internal/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
}

func NewRouter(
	cfg *config.HTTP,
	bikeHandler *BikeHandler,
	customerHandler *CustomerHandler,
	rentalHandler *RentalHandler,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Bikes routes
	bikes := router.Group("/bikes")
	{
		bikes.GET("", bikeHandler.ListAvailableBikes)
		bikes.GET("/all", bikeHandler.ListBikes)
		bikes.POST("", bikeHandler.CreateBike)
		bikes.GET("/:id", bikeHandler.GetBike)
		bikes.PUT("/:id", bikeHandler.UpdateBike)
		bikes.DELETE("/:id", bikeHandler.DeleteBike)
	}
	// Customers routes
	customers := router.Group("/customers")
	{
		customers.GET("", customerHandler.ListCustomers)
		customers.POST("", customerHandler.CreateCustomer)
		customers.GET("/:id", customerHandler.GetCustomer)
		customers.PUT("/:id", customerHandler.UpdateCustomer)
		customers.DELETE("/:id", customerHandler.DeleteCustomer)
		customers.GET("/:id/rentals", customerHandler.GetCustomerRentals)
	}
	// Rentals routes
	rentals := router.Group("/rentals")
	{
		rentals.GET("", rentalHandler.ListRentals)
		rentals.POST("", rentalHandler.StartRental)
		rentals.GET("/:id", rentalHandler.GetRental)
		rentals.PUT("/:id", rentalHandler.EndRental)
		rentals.PUT("/:id/pay", rentalHandler.PayRental)
		rentals.DELETE("/:id", rentalHandler.DeleteRental)
	}
	return &Router{router: router}, nil
}

// corsConfig allows every origin when none or "*" is configured, otherwise
// the comma separated list with credentials.
func corsConfig(allowedOrigins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}

	var origins []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
