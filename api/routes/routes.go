package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/workpulse/workpulse-backend/internal/config"
	"github.com/workpulse/workpulse-backend/internal/handlers"
	"github.com/workpulse/workpulse-backend/internal/middleware"
)

// HandlerDependencies carries the handlers wired in main
type HandlerDependencies struct {
	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	TaskHandler      *handlers.TaskHandler
	ClientHandler    *handlers.ClientHandler
	WorkEntryHandler *handlers.WorkEntryHandler
	RolloverHandler  *handlers.RolloverHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// The rollover trigger is invoked by an external scheduler and is
		// safe under duplicate invocation, so it stays public.
		public.POST("/rollover/trigger", deps.RolloverHandler.TriggerRollover)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		auth := protected.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
		}

		users := protected.Group("/users")
		{
			users.GET("", deps.UserHandler.GetAllUsers)
			users.GET("/count", deps.UserHandler.GetUserCount)
			users.GET("/:id", deps.UserHandler.GetUserByID)
			users.PUT("/:id", deps.UserHandler.UpdateUser)
			users.POST("/:id/deactivate", deps.UserHandler.DeactivateUser)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", deps.TaskHandler.GetTasks)
			tasks.GET("/:id", deps.TaskHandler.GetTaskByID)
			tasks.POST("", deps.TaskHandler.CreateTask)
			tasks.PUT("/:id", deps.TaskHandler.UpdateTask)
			tasks.DELETE("/:id", deps.TaskHandler.DeleteTask)
		}

		clients := protected.Group("/clients")
		{
			clients.GET("", deps.ClientHandler.GetClients)
			clients.GET("/:id", deps.ClientHandler.GetClientByID)
			clients.POST("", deps.ClientHandler.CreateClient)
			clients.PUT("/:id", deps.ClientHandler.UpdateClient)
			clients.DELETE("/:id", deps.ClientHandler.DeleteClient)
		}

		workEntries := protected.Group("/work-entries")
		{
			workEntries.GET("/:userId/:date", deps.WorkEntryHandler.GetEntry)
			workEntries.POST("/check-in", deps.WorkEntryHandler.CheckIn)
			workEntries.POST("/check-out", deps.WorkEntryHandler.CheckOut)
			workEntries.POST("/absent", deps.WorkEntryHandler.MarkAbsent)
			workEntries.POST("/assign", deps.WorkEntryHandler.AssignTask)
			workEntries.POST("/complete", deps.WorkEntryHandler.CompleteTask)
		}

		rollover := protected.Group("/rollover")
		{
			rollover.GET("/runs", deps.RolloverHandler.GetRecentRuns)
		}
	}

	return router
}
