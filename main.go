package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lugamandu/backend/controllers"
	"github.com/lugamandu/backend/events"
	"github.com/lugamandu/backend/logger"
	"github.com/lugamandu/backend/media"
	"github.com/lugamandu/backend/repository"
	"github.com/lugamandu/backend/routes"
	"github.com/lugamandu/backend/services"
	"github.com/lugamandu/backend/store"
	"github.com/lugamandu/backend/store/memory"
	"github.com/lugamandu/backend/store/mongostore"
	"github.com/lugamandu/backend/store/redisstore"
	"github.com/lugamandu/backend/viewstate"
)

func main() {
	// .env is optional; system env wins.
	_ = godotenv.Load()

	cfg := LoadConfig()

	log, err := logger.Initialize(cfg.Env)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	ctx := context.Background()

	client := openStore(ctx, cfg, log)
	defer client.Close(ctx)

	// Repositories.
	productRepo := repository.NewProductRepository(client)
	cartRepo := repository.NewCartRepository(client)
	orderRepo := repository.NewOrderRepository(client)
	reviewRepo := repository.NewReviewRepository(client)
	userRepo := repository.NewUserRepository(client)

	// Optional collaborators.
	var uploader media.Uploader
	if cfg.S3Bucket != "" {
		s3Client, err := media.NewS3Client(ctx, cfg.S3Region, cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3Secret)
		if err != nil {
			log.Fatal("Failed to build S3 client", zap.Error(err))
		}
		uploader = media.NewS3Uploader(s3Client, cfg.S3Bucket, cfg.S3BaseURL)
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// Services.
	orderSvc := services.NewOrderService(orderRepo, publisher, log)
	cartSvc := services.NewCartService(cartRepo, productRepo, orderSvc, log)
	reviewSvc := services.NewReviewService(reviewRepo, orderSvc, userRepo, log)
	productSvc := services.NewProductService(productRepo, uploader, log)

	// Presentation adapters.
	productVM := viewstate.NewProductViewModel(productRepo, log)
	if err := productVM.Start(ctx); err != nil {
		log.Fatal("Failed to start product mirror", zap.Error(err))
	}
	defer productVM.Stop()

	orderVM := viewstate.NewOrderViewModel(orderSvc, log)

	reviewVM := viewstate.NewReviewViewModel(reviewSvc, reviewRepo, log)
	if err := reviewVM.StartAll(ctx); err != nil {
		log.Fatal("Failed to start review mirror", zap.Error(err))
	}
	defer reviewVM.Stop()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.RequestLogger(log), gin.Recovery())

	routes.Register(router, routes.Deps{
		Products:  controllers.NewProductController(productVM, productSvc),
		Carts:     controllers.NewCartController(cartSvc, cartRepo, log),
		Orders:    controllers.NewOrderController(orderSvc, orderVM),
		Reviews:   controllers.NewReviewController(reviewSvc, reviewVM),
		Users:     controllers.NewUserController(userRepo, log),
		UserRepo:  userRepo,
		RateLimit: rate.Limit(cfg.RatePerSecond),
		RateBurst: cfg.RateBurst,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("LugaMandu backend listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg Config, log *zap.Logger) store.Client {
	switch cfg.StoreDriver {
	case "redis":
		redisClient, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		return redisstore.New(redisClient, log)
	case "mongo":
		mongoClient, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		return mongostore.New(mongoClient, cfg.MongoDB, cfg.MongoPollInterval, log)
	case "memory":
		return memory.New()
	default:
		log.Fatal("Unknown store driver", zap.String("driver", cfg.StoreDriver))
		return nil
	}
}
