package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/yu-ki/portfolio/internal/auth"
	"github.com/yu-ki/portfolio/internal/catalog"
	"github.com/yu-ki/portfolio/internal/commands"
	"github.com/yu-ki/portfolio/internal/config"
	"github.com/yu-ki/portfolio/internal/mascot"
	"github.com/yu-ki/portfolio/internal/store"
	"github.com/yu-ki/portfolio/internal/telemetry"
	"github.com/yu-ki/portfolio/internal/web"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		commands.HashPassword(os.Args[2:])
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.ServiceName, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		log.Printf("Warning: tracing disabled: %v", err)
	}

	st, err := store.Open(cfg.DatabasePath, cfg.IPSalt)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()
	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")

	admin, err := auth.Load(cfg.AuthFile)
	switch {
	case errors.Is(err, auth.ErrNoAuthFile):
		log.Printf("Warning: no auth file at %s, admin login disabled. Run: portfolio hash-password", cfg.AuthFile)
	case err != nil:
		log.Fatal(err)
	default:
		log.Printf("Admin access available at: /admin/login")
	}

	var mapData []byte
	if cfg.MapDataPath != "" {
		mapData, err = os.ReadFile(cfg.MapDataPath)
		if err != nil {
			log.Printf("Warning: map data unavailable: %v", err)
			mapData = nil
		}
	}

	bubble := mascot.NewBubble(mascot.DefaultMessages, rand.New(rand.NewSource(time.Now().UnixNano())), nil)

	opts := web.DefaultOptions()
	opts.ProximityKm = cfg.ProximityKm
	opts.Retention = cfg.VisitorRetention

	srv, err := web.NewServer(web.Deps{
		Catalog: catalog.Default(),
		Bubble:  bubble,
		Store:   st,
		Admin:   admin,
		Content: pageContent(),
		MapData: mapData,
	}, opts)
	if err != nil {
		log.Fatal("Failed to build server:", err)
	}

	scheduler := cron.New()
	if _, err := mascot.Schedule(scheduler, bubble, cfg.MascotInterval); err != nil {
		log.Fatal("Failed to schedule mascot:", err)
	}
	if _, err := scheduler.AddFunc("@daily", func() { srv.CleanupVisitors(ctx) }); err != nil {
		log.Fatal("Failed to schedule privacy cleanup:", err)
	}
	scheduler.Start()
	// Clean up once at start-up as well.
	go srv.CleanupVisitors(ctx)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Portfolio listening on %s", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-shutdownChannel
	log.Println("Shutting down server...")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	srv.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("Tracing shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
