package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"borg-link/core/apperror"
	"borg-link/core/loader"
	"borg-link/core/logger"
	"borg-link/core/middleware/rayid"
	"borg-link/core/queue"
	"borg-link/core/scheduler"
	"borg-link/feature/borg"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "borg-link/docs/swagger"
)

// @title Borg Link API
// @version 1.0
// @description Catalog, import and integrity API for Borgs collectibles.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the borg catalog server",
	Long:  `Starts the HTTP server, the import workers, the scheduled sync and the chain event listener.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 1. Configuration, database, storage, redis and chain
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		logg := a.logger
		zap.ReplaceGlobals(logg)

		msgs, err := a.cfg.Errors.Load()
		if err != nil {
			return err
		}

		// 2. Import workers
		if rq, ok := a.queue.(*queue.RedisQueue); ok {
			if n, err := rq.Recover(ctx); err != nil {
				logg.Warn("Failed to recover in-flight jobs", zap.Error(err))
			} else if n > 0 {
				logg.Info("Recovered in-flight jobs", zap.Int("count", n))
			}
		}
		tasks := a.borg.Tasks()
		pool := queue.NewPool(a.queue, tasks.HandleJob, a.cfg.Queue, logger.Component(logg, "worker"))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Run(ctx)
		}()

		// 3. Scheduled sync, back-fill and keep-alive
		sched := scheduler.New(logger.Component(logg, "scheduler"))
		defer sched.Stop()
		if err := tasks.Schedule(sched); err != nil {
			return err
		}

		// 4. Chain event listener
		if a.cfg.Chain.ListenerEnabled {
			cooldown := time.Duration(a.cfg.Chain.ReconnectCooldownSeconds) * time.Second
			listener := borg.NewListener(a.chain, a.queue, cooldown, logger.Component(logg, "listener"))
			wg.Add(1)
			go func() {
				defer wg.Done()
				listener.Run(ctx)
			}()
		}

		// 5. HTTP server
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             a.cfg.Server.BodyLimit,
			ErrorHandler:          apperror.Handler(msgs, logg),
		})

		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		mgr := loader.NewManager()
		mgr.Register(a.borg)
		mgr.Register(a.integrity)
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			if err := app.Listen(":" + a.cfg.Server.Port); err != nil {
				logg.Error("Server failed", zap.Error(err))
				stop()
			}
		}()

		// 6. Graceful Shutdown
		<-ctx.Done()
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logg.Warn("Server shutdown incomplete", zap.Error(err))
		}
		wg.Wait()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
