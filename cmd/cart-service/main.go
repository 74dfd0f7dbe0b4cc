package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/itaipu/go-shop/internal/cart/events"
	carthttp "github.com/itaipu/go-shop/internal/cart/http"
	cartrepo "github.com/itaipu/go-shop/internal/cart/repository"
	"github.com/itaipu/go-shop/internal/cart/quotes"
	cartservice "github.com/itaipu/go-shop/internal/cart/service"
	"github.com/itaipu/go-shop/internal/db"
	producthttp "github.com/itaipu/go-shop/internal/product/http"
	productrepo "github.com/itaipu/go-shop/internal/product/repository"
	productservice "github.com/itaipu/go-shop/internal/product/service"
)

type Config struct {
	HTTPPort        string
	CurrencyAPIURL  string
	KafkaBrokers    string
	RequestTimeout  time.Duration
	QuoteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8081"),
		CurrencyAPIURL:  getEnv("CURRENCY_API_URL", "http://localhost:8080"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		RequestTimeout:  30 * time.Second,
		QuoteTimeout:    5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("cart-service starting...")

	cfg := loadConfig()

	// Database setup
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}
	creds := &db.Credentials{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              dbPort,
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "shop"),
		MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations"),
	}

	conn, err := db.Connect(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()
	log.Println("Connected to postgres")

	if err := db.RunMigrations(conn, creds.MigrationsDirPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	productRepository := productrepo.NewRepository(conn)
	cartRepository := cartrepo.NewRepository(conn)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := productRepository.SeedDefaults(seedCtx); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}
	cancelSeed()

	quoteClient := quotes.NewClient(cfg.CurrencyAPIURL, cfg.QuoteTimeout)

	var publisher cartservice.EventPublisher = events.NoopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing cart events to %s", cfg.KafkaBrokers)
	}

	productService := productservice.NewProductService(productRepository)
	cartService := cartservice.NewCartService(cartRepository, productRepository, quoteClient, publisher)

	productHandler := producthttp.NewProductHandler(productService, cfg.RequestTimeout)
	cartHandler := carthttp.NewCartHandler(cartService, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Post("/", cartHandler.CreateCart)
		r.Get("/{cartId}", cartHandler.GetCart)
		r.Delete("/{cartId}", cartHandler.ClearCart)
		r.Post("/{cartId}/items", cartHandler.AddItem)
		r.Put("/{cartId}/items/{productId}", cartHandler.UpdateItemQuantity)
		r.Delete("/{cartId}/items/{productId}", cartHandler.RemoveItem)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.GetAll)
		r.Post("/", productHandler.Create)
		r.Get("/search", productHandler.Search)
		r.Get("/category/{category}", productHandler.GetByCategory)
		r.Get("/{id}", productHandler.Get)
		r.Put("/{id}", productHandler.Update)
		r.Delete("/{id}", productHandler.Delete)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("cart-service listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down cart-service...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("cart-service stopped")
}
