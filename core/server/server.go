package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realite-api/core/config"
	"realite-api/core/database"
	"realite-api/core/logger"
	coreMiddleware "realite-api/core/middleware"
	"realite-api/core/queue"
	"realite-api/core/storage"
	"realite-api/modules/calendar"
	"realite-api/modules/dating"
	"realite-api/modules/event"
	"realite-api/modules/group"
	"realite-api/modules/notification"
	"realite-api/modules/smartmeeting"
	"realite-api/modules/suggestion"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

// sweepCron drives the deadline tally for plans whose delayed advance task
// was lost.
const sweepCron = "*/5 * * * *"

// Run boots the whole service: config, logging, storage, queue workers, the
// module graph and the HTTP listener. It blocks until SIGINT/SIGTERM and then
// shuts everything down in reverse order.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Server.LogLevel)
	defer logger.Sync()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Server:Run:RedisUnavailable", "addr", cfg.Redis.Addr, "error", err)
		rdb = nil
	}

	media, err := storage.NewS3Store(cfg.AWS)
	if err != nil {
		logger.Warn("Server:Run:S3Unavailable", "error", err)
		media = nil
	}

	var qc *queue.Client
	var worker *queue.Worker
	if rdb != nil {
		qc = queue.NewClient(cfg.Redis)
		worker = queue.NewWorker(cfg.Redis)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = newRequestValidator()
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())

	mw := coreMiddleware.New(cfg)

	// Module graph, in dependency order.
	groups := group.Init(e, db, mw)
	cal := calendar.Init(e, db, mw, rdb, qc)
	events := event.Init(e, db, mw, groups.Service, media)
	datingMod := dating.Init(e, db, mw)
	suggestion.Init(e, db, mw, cal, events.Service, datingMod.Service)
	notifications := notification.Init(e, db, mw)
	meetings := smartmeeting.Init(e, db, mw, cal, groups.Service, notifications.Service, qc)

	if worker != nil {
		worker.RegisterHandler(queue.TaskCalendarSync, cal.Service.HandleSyncTask)
		worker.RegisterHandler(queue.TaskSmartMeetingAdvance, meetings.Service.HandleAdvanceTask)
		worker.RegisterHandler(queue.TaskSmartMeetingSweep, meetings.Service.HandleSweepTask)
		if err := worker.RegisterPeriodic(sweepCron, queue.TaskSmartMeetingSweep); err != nil {
			logger.Warn("Server:Run:SweepScheduleFailed", "error", err)
		}
		worker.Start()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Run:ListenFailed", err)
		}
	}()
	logger.Info("Server:Run:Started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server:Run:ShuttingDown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server:Run:HTTPShutdown", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if qc != nil {
		if err := qc.Close(); err != nil {
			logger.Error("Server:Run:QueueClose", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("Server:Run:RedisClose", err)
		}
	}

	return nil
}
