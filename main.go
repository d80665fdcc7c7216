package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/vTempo/afroditis-delicacies/auth"
	"github.com/vTempo/afroditis-delicacies/config"
	"github.com/vTempo/afroditis-delicacies/geocode"
	"github.com/vTempo/afroditis-delicacies/notify"
	"github.com/vTempo/afroditis-delicacies/realtime"
	"github.com/vTempo/afroditis-delicacies/routes"
	"github.com/vTempo/afroditis-delicacies/services/account"
	"github.com/vTempo/afroditis-delicacies/services/cart"
	"github.com/vTempo/afroditis-delicacies/services/catalog"
	"github.com/vTempo/afroditis-delicacies/store"
	"github.com/vTempo/afroditis-delicacies/uploads"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.Println("✅ Starting application...")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}

	hub := realtime.NewHub()
	defer hub.Close()

	catalogOpts := []catalog.Option{catalog.WithEvents(hub)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️ Redis unavailable, menu cache disabled: %v", err)
		} else if cache, err := catalog.NewRedisCache(rdb, cfg.MenuCacheTTL); err == nil {
			catalogOpts = append(catalogOpts, catalog.WithCache(cache))
			log.Printf("✅ Menu cache enabled on %s", cfg.RedisAddr)
		}
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.RabbitMQURL != "" {
		pool, err := notify.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize)
		if err != nil {
			log.Printf("⚠️ RabbitMQ unavailable, notifications will only be logged: %v", err)
		} else {
			defer pool.Close()
			notifier = notify.NewRabbitPublisher(pool)
			log.Printf("✅ Notifications published to queue %s", cfg.RabbitMQQueue)
		}
	}

	firebaseClient, err := auth.NewFirebase(ctx, cfg.FirebaseCredentialsJSON, cfg.FirebaseProjectID)
	if err != nil {
		log.Fatalf("❌ Firebase init failed: %v", err)
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	deps := routes.Deps{
		Auth: auth.NewService(db, firebaseClient, issuer,
			auth.WithProjectID(cfg.FirebaseProjectID),
			auth.WithNotifier(notifier),
		),
		Issuer:      issuer,
		AdminAPIKey: cfg.AdminAPIKey,
		Catalog:     catalog.New(db, catalogOpts...),
		Cart:        cart.New(db),
		Account:     account.New(db, firebaseClient, account.WithNotifier(notifier)),
		Hub:         hub,
		Geocode:     geocode.New(cfg.MapboxToken),
		Images:      uploads.NewImages(cfg.UploadsDir, "/uploads"),
	}

	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !containsWildcard(cfg.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		log.Fatalf("❌ Failed to create uploads directory: %v", err)
	}
	r.Static("/uploads", cfg.UploadsDir)

	routes.SetupRoutes(r, deps)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("🚀 Server running on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("🛑 Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		uploads.NewBackup(cfg.UploadsDir, cfg.BackupDir, cfg.BackupRetention, cfg.BackupHour).Run(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
	log.Println("✅ Server stopped")
}

// containsWildcard reports whether origins allows every origin. Credentials
// cannot be combined with "*".
func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
