package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"chatapp/internal/adapter/api"
	"chatapp/internal/adapter/api/handler"
	apimiddleware "chatapp/internal/adapter/api/middleware"
	"chatapp/internal/adapter/api/router"
	"chatapp/internal/adapter/repository"
	"chatapp/internal/infrastructure/firebase"
	"chatapp/internal/infrastructure/push"
	"chatapp/internal/infrastructure/ratelimit"
	"chatapp/internal/infrastructure/storage"
	"chatapp/internal/infrastructure/websocket"
	"chatapp/internal/usecase"
	"chatapp/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	serviceAccountPath := ""
	if serviceAccountJSON == "" {
		serviceAccountPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}
	}

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.FirebaseProject, serviceAccountPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	callRepo := repository.NewFirestoreCallRepository(firestoreClient)
	galleryRepo := repository.NewFirestoreGalleryRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)
	pushClient := push.NewExpoPushClient()

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, userRepo, pushClient)
	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient, cfg.StartingCoins)
	userUseCase := usecase.NewUserUseCase(userRepo, storageClient, rateLimiter)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, wsManager, rateLimiter, notificationUseCase)
	callUseCase := usecase.NewCallUseCase(callRepo, userRepo, wsManager, rateLimiter, notificationUseCase,
		time.Duration(cfg.RingTimeoutSeconds)*time.Second)
	galleryUseCase := usecase.NewGalleryUseCase(galleryRepo, userRepo)

	handler.Setup(authUseCase, userUseCase, chatUseCase, callUseCase, galleryUseCase, notificationUseCase)
	handler.SetupDevTokenHandler(firebaseAuthClient, userRepo)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	wsHandler := handler.NewWebSocketHandler(wsManager, authMiddleware, chatUseCase, callUseCase)

	router.Setup(e, authMiddleware)
	router.SetupDevRouter(e, cfg.Environment)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
