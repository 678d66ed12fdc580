package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API under /api
func RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	{
		// State routes
		api.GET("/states", ListStates)
		api.POST("/states", CreateState)
		api.GET("/states/:id", GetState)
		api.PUT("/states/:id/counter", SetStateCounter)
		api.POST("/states/:id/increment", IncrementState)
		api.POST("/states/:id/decrement", DecrementState)
		api.POST("/states/:id/reset", ResetState)
		api.DELETE("/states/:id", DeleteState)

		// Codec description
		api.GET("/codec", GetCodec)

		// Error log routes
		api.GET("/error-logs", GetErrorLogs)
		api.DELETE("/error-logs", ClearErrorLogs)

		// Health and metrics routes
		api.GET("/health", HealthCheck)
		api.GET("/metrics", GetMetrics)
	}
}
