package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"game-store/configs"
	controllers "game-store/internal/controllers/http"
	"game-store/internal/controllers/http/middleware"
	"game-store/internal/infra"
	mmysql "game-store/internal/infra/mysql"
	"game-store/internal/infra/rabbitmq"
	"game-store/internal/logging"
	mysqlrepo "game-store/internal/repository/mysql"
	"game-store/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfgDir := os.Getenv("CONFIG_DIR")
	if cfgDir == "" {
		cfgDir = "./configs"
	}
	envName := os.Getenv("APP_ENV")
	if envName == "" {
		envName = "dev"
	}

	cfg, err := configs.Load(cfgDir, envName)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.Init(cfg.App.Name, cfg.App.LogFile)

	db, err := mmysql.New(mmysql.Options{
		DSN:             cfg.MySQL.DSN,
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	orderRepo := mysqlrepo.NewOrderRepository(db)
	gameRepo := mysqlrepo.NewGameRepository(db)
	paymentRepo := mysqlrepo.NewPaymentRepository(db)
	userRepo := mysqlrepo.NewUserRepository(db)

	var publisher rabbitmq.PublisherInterface
	if cfg.Rabbit.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Warn("rabbitmq url not configured, settlement events disabled")
	}

	var renderer infra.InvoiceRendererInterface
	if cfg.Invoice.RendererURL != "" {
		renderer = infra.NewInvoiceRenderer(cfg.Invoice.RendererURL, cfg.Invoice.Timeout)
	} else {
		logger.Warn("invoice renderer not configured, returning invoice records as JSON")
	}

	cartService := services.NewCartService(orderRepo, gameRepo, userRepo)
	paymentService := services.NewPaymentService(orderRepo, paymentRepo, userRepo, services.NewLicenseIssuer(), publisher)
	orderService := services.NewOrderService(orderRepo)
	priceService := services.NewPriceService(gameRepo)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		cartService.SetRedisClient(redisClient)
	}

	handler := controllers.NewHandler(cartService, paymentService, orderService, priceService, renderer, redisClient)
	handler.SetCartTTL(cfg.Redis.CartTTL)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.Logging(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("starting game store", "addr", cfg.App.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server run: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
}
