// Package server wires the HTTP surface of the service.
package server

import (
	"net/http"

	"runbox/internal/compile/controller"
	"runbox/internal/server/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with the versioned routes, CORS and trace
// middleware, and the plain-text 404 fallback.
func NewRouter(ctrl *controller.CompileController) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceContextMiddleware())
	router.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/healthz", ctrl.Healthz)
		v1.POST("/compile", ctrl.Compile)
	}

	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "The Requested resource was not found")
	})

	return router
}
