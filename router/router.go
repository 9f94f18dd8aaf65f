// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/counselware/praxis/controller"
	"github.com/counselware/praxis/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	walls middleware.WallResolver,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))
	router.Use(middleware.Auth(walls))

	api := router.Group("/api/v1")

	controllers.Access.RegisterRoutes(api)
	controllers.Wall.RegisterRoutes(api)

	return router
}
