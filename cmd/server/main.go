package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/NagasuriRaviTeja/movie-magic/internal/catalog"
	"github.com/NagasuriRaviTeja/movie-magic/internal/config"
	"github.com/NagasuriRaviTeja/movie-magic/internal/database"
	"github.com/NagasuriRaviTeja/movie-magic/internal/handler"
	"github.com/NagasuriRaviTeja/movie-magic/internal/logger"
	"github.com/NagasuriRaviTeja/movie-magic/internal/mirror"
	"github.com/NagasuriRaviTeja/movie-magic/internal/queue"
	"github.com/NagasuriRaviTeja/movie-magic/internal/repository"
	"github.com/NagasuriRaviTeja/movie-magic/internal/router"
	"github.com/NagasuriRaviTeja/movie-magic/internal/service"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins
	cfg := config.Load()

	zlog, err := logger.Init(logger.ConfigFromEnv())
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zlog.Fatal("open database", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		zlog.Fatal("ensure schema", zap.Error(err))
	}
	cancel()

	// Redis backs sessions and the booking mirror. When it is down the
	// site still works: sessions fall back to process memory and the
	// mirror is disabled.
	sessionTTL := time.Duration(cfg.SessionTTLMin) * time.Minute
	rdb := config.NewRedisClient()
	var sessions session.Store
	var mir service.Mirror
	if rdb != nil {
		sessions = session.NewRedisStore(rdb, sessionTTL)
		mir = mirror.New(rdb)
	} else {
		zlog.Warn("redis unavailable; using in-memory sessions, mirror disabled")
		sessions = session.NewMemoryStore(sessionTTL)
	}

	// Notifications are best-effort: a nil publisher drops events and the
	// consumer goroutine idles when no broker is configured.
	var events service.Publisher
	if pub := queue.NewPublisher(cfg.AMQPURL, zlog); pub != nil {
		events = pub
	}
	go queue.StartNotificationConsumer(cfg.AMQPURL, zlog)

	cat := catalog.Default()
	users := repository.NewUserRepo(db)
	bookings := repository.NewBookingRepo(db)

	bookingSvc := &service.BookingService{
		Catalog:  cat,
		Bookings: bookings,
		Sessions: sessions,
		Mirror:   mir,
		Events:   events,
		Log:      zlog,
	}
	paymentSvc := &service.PaymentService{
		Sessions: sessions,
		Events:   events,
		Log:      zlog,
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, sessions, zlog),
		Pages:     handler.NewPageHandler(cat, sessions),
		Booking:   handler.NewBookingHandler(cat, bookingSvc, sessions, zlog),
		Payment:   handler.NewPaymentHandler(cat, paymentSvc, sessions, zlog),
		Dashboard: handler.NewDashboardHandler(bookings, sessions, zlog),
		Sessions:  sessions,
	})

	addr := ":" + cfg.Port
	zlog.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
