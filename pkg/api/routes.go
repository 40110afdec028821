package api

import (
	"taskboard-api/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// TaskRoutes mounts the task REST surface under /api. Every route goes
// through the security-header, request-id and rate-limit middleware in
// that order, so even rejected requests carry the uniform headers.
func TaskRoutes(router *gin.Engine, env *Env, limiter *ratelimit.Limiter) {
	apiGroup := router.Group("/api")
	apiGroup.Use(SecurityHeaders(), RequestID())
	{
		tasks := apiGroup.Group("/tasks")
		tasks.Use(TaskRateLimiter(limiter))
		{
			tasks.GET("", env.GetTasksController)
			tasks.POST("", env.CreateTaskController)
			tasks.GET("/:id", env.GetTaskByIdController)
			tasks.PUT("/:id", env.UpdateTaskController)
			tasks.DELETE("/:id", env.DeleteTaskController)
		}
	}
}
