package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"moodring/internal/config"
	"moodring/internal/database"
	"moodring/internal/handler"
	"moodring/internal/queue"
	"moodring/internal/redis"
	"moodring/internal/repository"
	"moodring/internal/service"
	"moodring/internal/worker"
)

// Run wires the whole application together and serves until SIGINT/SIGTERM.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Postgres
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis (engagement event stream)
	redisClient := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := redisClient.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	// 4. Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	deviceTokenRepo := repository.NewDeviceTokenRepository(db)

	// 5. Queue plumbing
	publisher := queue.NewPublisher(redisClient.Client)
	consumer := queue.NewConsumer(redisClient.Client)

	// 6. Services
	formatter := service.NewPostFormatter(postRepo, userRepo)
	userService := service.NewUserService(userRepo, followRepo)
	authService := service.NewAuthService(refreshTokenRepo, cfg)
	postService := service.NewPostService(postRepo, commentRepo, formatter)
	likeService := service.NewLikeService(likeRepo, postRepo, publisher)
	commentService := service.NewCommentService(commentRepo, postRepo, formatter, publisher)
	followService := service.NewFollowService(followRepo, userRepo, publisher)
	feedService := service.NewFeedService(postRepo, formatter)

	mediaService, err := service.NewMediaService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init media service: %w", err)
	}

	fcmClient, err := service.NewFCMClient(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to init FCM client: %w", err)
	}
	pushService := service.NewPushService(fcmClient, deviceTokenRepo, userRepo)

	// 7. Notification workers consume engagement events off the stream
	manager := worker.NewManager(consumer, worker.NewHandler(pushService), worker.ManagerConfig{
		WorkerCount: cfg.WorkerCount,
	})
	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer manager.Stop()

	// 8. Handlers and router
	router := NewRouter(RouterConfig{
		AuthHandler:         handler.NewAuthHandler(userService, authService, mediaService, cfg),
		UserHandler:         handler.NewUserHandler(userService),
		FollowHandler:       handler.NewFollowHandler(followService),
		FeedHandler:         handler.NewFeedHandler(feedService),
		PostHandler:         handler.NewPostHandler(postService),
		LikeHandler:         handler.NewLikeHandler(likeService),
		CommentHandler:      handler.NewCommentHandler(commentService),
		MediaHandler:        handler.NewMediaHandler(mediaService),
		NotificationHandler: handler.NewNotificationHandler(pushService),
		JWTSecret:           cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Println("[Server] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("[Server] Stopped")
	return nil
}
