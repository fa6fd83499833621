package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Import routes
		v1.POST("/imports", handler.ImportFile)
		v1.POST("/imports/async", handler.ImportFileAsync)
		v1.POST("/imports/validate", handler.ValidateFile)
		v1.GET("/imports", handler.ListImports)
		v1.GET("/imports/:id", handler.GetImport)
		v1.GET("/imports/:id/original", handler.GetOriginalFile)
		v1.GET("/imports/:id/consolidated/:format", handler.GetConsolidated)

		// Metrics routes
		v1.GET("/metrics/students/:id", handler.StudentMetrics)
		v1.GET("/metrics/classes/:id", handler.ClassMetrics)
		v1.GET("/metrics/courses/:code", handler.CourseMetrics)
		v1.GET("/metrics/overall", handler.OverallMetrics)

		// Report routes
		v1.GET("/reports/dashboard", handler.Dashboard)
		v1.GET("/reports/students", handler.StudentsReport)
		v1.GET("/reports/classes", handler.ClassesReport)
		v1.GET("/reports/courses", handler.CoursesReport)
	}
}
