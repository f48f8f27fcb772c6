package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitzty/fitzty-backend/internal/cache"
	"github.com/fitzty/fitzty-backend/internal/config"
	"github.com/fitzty/fitzty-backend/internal/database"
	"github.com/fitzty/fitzty-backend/internal/handler"
	"github.com/fitzty/fitzty-backend/internal/queue"
	appredis "github.com/fitzty/fitzty-backend/internal/redis"
	"github.com/fitzty/fitzty-backend/internal/repository"
	"github.com/fitzty/fitzty-backend/internal/service"
	"github.com/fitzty/fitzty-backend/internal/worker"
)

// Run wires the whole application together and serves until SIGINT/SIGTERM.
func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis
	redisClient, err := appredis.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Println("Connected to Redis successfully")

	// 4. External services
	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}
	visionService := service.NewVisionService(cfg.OpenAIAPIKey)
	if cfg.OpenAIAPIKey == "" {
		log.Println("OPENAI_API_KEY not set; AI generation endpoints will fail")
	}

	// 5. Repositories and caches
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	wardrobeRepo := repository.NewWardrobeRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)
	followRepo := repository.NewFollowRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	brandCache := cache.NewBrandCache(redisClient.Client)

	// 6. Queue: publisher for request-path enqueues, consumer for workers
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// 7. Services
	userService := service.NewUserService(userRepo, profileRepo, db, cfg)
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	profileService := service.NewProfileService(profileRepo, mediaService, visionService, publisher, cfg)
	wardrobeService := service.NewWardrobeService(wardrobeRepo, brandRepo, brandCache, mediaService, visionService, publisher)
	brandService := service.NewBrandService(brandRepo, brandCache)
	waitlistService := service.NewWaitlistService(waitlistRepo)
	followService := service.NewFollowService(followRepo, profileRepo, db)
	fitService := service.NewFitService(wardrobeRepo)

	// 8. Cleanup workers consuming the stream
	workerHandler := worker.NewHandler(mediaService)
	workerManager := worker.NewManager(consumer, workerHandler, worker.DefaultManagerConfig())
	if err := workerManager.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start cleanup workers: %w", err)
	}
	defer workerManager.Stop()

	// 9. Handlers and router
	router := NewRouter(RouterConfig{
		AuthHandler:     handler.NewAuthHandler(userService, authService),
		ProfileHandler:  handler.NewProfileHandler(profileService),
		WardrobeHandler: handler.NewWardrobeHandler(wardrobeService),
		BrandHandler:    handler.NewBrandHandler(brandService),
		WaitlistHandler: handler.NewWaitlistHandler(waitlistService),
		FollowHandler:   handler.NewFollowHandler(followService),
		FitHandler:      handler.NewFitHandler(fitService),
		AIHandler:       handler.NewAIHandler(visionService),
		JWTSecret:       cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // AI generation calls are slow
		IdleTimeout:  120 * time.Second,
	}

	// 10. Serve with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		log.Printf("Received signal %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
