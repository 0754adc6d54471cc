package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/workpulse/workpulse-backend/api/routes"
	"github.com/workpulse/workpulse-backend/internal/config"
	"github.com/workpulse/workpulse-backend/internal/handlers"
	"github.com/workpulse/workpulse-backend/internal/repositories"
	mongorepo "github.com/workpulse/workpulse-backend/internal/repositories/mongodb"
	"github.com/workpulse/workpulse-backend/internal/services"
	"github.com/workpulse/workpulse-backend/internal/utils"
	"github.com/workpulse/workpulse-backend/pkg/mongodb"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var taskRepo repositories.TaskRepository = mongorepo.NewTaskRepository(db)
	var clientRepo repositories.ClientRepository = mongorepo.NewClientRepository(db)
	var entryRepo repositories.WorkEntryRepository = mongorepo.NewWorkEntryRepository(db)
	var stateRepo repositories.RolloverStateRepository = mongorepo.NewRolloverStateRepository(db)
	var runRepo repositories.RolloverRunRepository = mongorepo.NewRolloverRunRepository(db)

	// Services
	clock := utils.NewCivilClock(cfg.Rollover.CivilOffsetMinutes)
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	clientService := services.NewClientService(clientRepo)
	workEntryService := services.NewWorkEntryService(entryRepo, clock)
	rolloverService := services.NewRolloverService(userRepo, entryRepo, stateRepo, runRepo, clock, logger, cfg.Rollover)

	// Handlers
	deps := routes.HandlerDependencies{
		AuthHandler:      handlers.NewAuthHandler(authService),
		UserHandler:      handlers.NewUserHandler(userService),
		TaskHandler:      handlers.NewTaskHandler(taskService),
		ClientHandler:    handlers.NewClientHandler(clientService),
		WorkEntryHandler: handlers.NewWorkEntryHandler(workEntryService),
		RolloverHandler:  handlers.NewRolloverHandler(rolloverService),
	}

	router := routes.SetupRouter(cfg, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	logger.Info("Server starting", "port", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	logger.Info("Server exiting")
}
