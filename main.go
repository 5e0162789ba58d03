package main

import (
	"log"
	"os"

	api "notibox-backend/cmd/api"
	authdomain "notibox-backend/internal/auth/domain"
	authRepo "notibox-backend/internal/auth/repository"
	authUsecase "notibox-backend/internal/auth/usecase"
	notifdomain "notibox-backend/internal/notification/domain"
	notifRepo "notibox-backend/internal/notification/repository"
	notifUsecase "notibox-backend/internal/notification/usecase"
	"notibox-backend/pkg/config"
	"notibox-backend/pkg/database"
	"notibox-backend/pkg/logger"
	"notibox-backend/pkg/push"
	"notibox-backend/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.PushToken{}, &notifdomain.Notification{}, &notifdomain.UnreadCounter{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	pushTokenRepo := authRepo.NewPushTokenRepository(db)
	inboxRepo := notifRepo.NewInboxRepository(db)
	counterRepo := notifRepo.NewCounterRepository(db)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Push senders: Expo relay always, FCM only when credentials are set.
	expoClient := push.NewExpoClient(cfg.ExpoPushURL, cfg.PushTTL)
	var fcmClient push.Sender
	if cfg.FirebaseCredentials != "" {
		client, err := push.NewFCMClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (FCM tokens disabled): %v", err)
		} else {
			fcmClient = client
		}
	} else {
		log.Printf("[DEBUG] No Firebase credentials configured, FCM disabled")
	}
	pushRouter := push.NewRouter(expoClient, fcmClient)

	// Initialize use cases (dependency injection)
	notificationUsecaseInstance := notifUsecase.NewNotificationUsecase(pushTokenRepo, inboxRepo, counterRepo, pushRouter, sseManager)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, pushTokenRepo, cfg)

	// Registering a push token lazily creates the user's unread counter.
	authUsecaseInstance.SetTokenRegisteredCallback(notificationUsecaseInstance.EnsureCounter)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, notificationUsecaseInstance, sseManager)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := handler.Start(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
