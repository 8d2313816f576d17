package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cineboard/backoffice/internal/backend"
	"github.com/cineboard/backoffice/internal/config"
	"github.com/cineboard/backoffice/internal/handler"
	"github.com/cineboard/backoffice/internal/middleware"
	"github.com/cineboard/backoffice/internal/queue"
	"github.com/cineboard/backoffice/internal/router"
	"github.com/cineboard/backoffice/internal/schedule"
	"github.com/cineboard/backoffice/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	// Redis backs rate limiting and the browse response cache.  Both
	// middlewares degrade to pass-through when the client is nil, so a
	// missing Redis never blocks startup.
	rdb := config.NewRedisClient()

	client := backend.NewClient(cfg.BackendBaseURL, nil)
	sessions := session.NewStore(time.Duration(cfg.SessionTTLMin) * time.Minute)
	defer sessions.Close()
	checker := schedule.NewChecker(client, client, cfg.BufferMin)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg), cfg.JWTSecret)
	router.RegisterEditor(e, handler.NewEditorHandler(sessions, client, cfg), cfg.JWTSecret)
	router.RegisterSchedule(e, handler.NewScheduleHandler(checker, client, cfg), cfg.JWTSecret)
	router.RegisterBrowse(e, handler.NewBrowseHandler(client), middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	// Audit consumer tails the event queues and appends to logs/audit.log.
	// It reconnects on its own; a broker outage only pauses the trail.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, backend=%s)", addr, cfg.Env, cfg.BackendBaseURL)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
