package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace_api/internal/api/dto"
	"marketplace_api/internal/config"
	"marketplace_api/internal/middleware"
	"marketplace_api/internal/model"
	"marketplace_api/internal/repository"
	"marketplace_api/internal/router"
	"marketplace_api/internal/seed"
	"marketplace_api/internal/task"
	"marketplace_api/pkg/database"
	"marketplace_api/pkg/logger"
)

func main() {
	cmd := &cli.Command{
		Name:           "marketplace",
		Usage:          "Marketplace catalog REST API",
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "optional config file (yaml, json, toml or env)",
				Sources: cli.EnvVars("CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Create missing tables and run the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create missing tables and exit",
				Action: migrate,
			},
			{
				Name:  "drop",
				Usage: "Drop every table",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "confirm dropping all data"},
				},
				Action: drop,
			},
			{
				Name:  "seed",
				Usage: "Insert fake demo data",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "sellers", Value: seed.DefaultOptions().Sellers},
					&cli.IntFlag{Name: "products", Value: seed.DefaultOptions().ProductsPerSeller, Usage: "products per seller"},
					&cli.IntFlag{Name: "categories", Value: seed.DefaultOptions().Categories},
					&cli.IntFlag{Name: "users", Value: seed.DefaultOptions().Users},
				},
				Action: seedData,
			},
			{
				Name:   "low-stock",
				Usage:  "Run the low stock report once and print the rows",
				Action: lowStock,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ==================== App ====================

// app is what every command needs: settings, logger and an open store.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func (rt *app) close() {
	if err := database.Close(rt.db); err != nil {
		rt.log.Warn("close database", zap.Error(err))
	}
	_ = rt.log.Sync()
}

func loadApp(cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	db, err := initDatabase(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: db}, nil
}

// ==================== Initialization ====================

// initDatabase opens the store and hooks mutation auditing into it.
func initDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.InitDB(database.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		URL:          cfg.Database.URL,
		LogLevel:     cfg.Database.LogLevel,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}, log)
	if err != nil {
		return nil, err
	}

	if err := middleware.RegisterAuditCallbacks(db, log); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}

func initSchema(ctx context.Context, rt *app) error {
	created, err := database.NewInitializer(rt.db, rt.log, model.Tables()...).Initialize(ctx)
	if err != nil {
		return err
	}
	rt.log.Info("schema ready", zap.Strings("created", created))
	return nil
}

// initDependencies applies the process-wide settings and builds the route table.
func initDependencies(rt *app) *gin.Engine {
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:      rt.cfg.Auth.JWTSecret,
		AccessTokenTTL: rt.cfg.Auth.TokenTTL,
		Issuer:         rt.cfg.Auth.Issuer,
	})
	dto.RegisterValidators()
	gin.SetMode(rt.cfg.Server.Mode)

	handlers := router.NewHandlers(rt.db, router.Options{
		CORSAllowOrigins: rt.cfg.Server.CORSAllowOrigins,
		BcryptCost:       rt.cfg.Auth.BcryptCost,
		LoginCooldown:    rt.cfg.Auth.LoginCooldown,
	}, rt.log)

	r := router.NewEngine(rt.log, rt.cfg.Server.CORSAllowOrigins)
	router.InitRoutes(r, handlers)
	return r
}

// initTasks starts the scheduled jobs.
func initTasks(rt *app) (*task.TaskManager, error) {
	tm := task.NewTaskManager(repository.NewStore(rt.db), task.TaskManagerConfig{
		LowStockCron: rt.cfg.Task.LowStockCron,
	}, rt.log)
	if err := tm.Start(); err != nil {
		return nil, err
	}
	return tm, nil
}

// ==================== Commands ====================

func serve(ctx context.Context, cmd *cli.Command) error {
	rt, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := initSchema(ctx, rt); err != nil {
		return err
	}

	r := initDependencies(rt)

	tm, err := initTasks(rt)
	if err != nil {
		return err
	}
	defer tm.Stop()

	return startServer(rt, r)
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	rt, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	return initSchema(ctx, rt)
}

func drop(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return errors.New("refusing to drop tables without --yes")
	}

	rt, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := database.NewInitializer(rt.db, rt.log, model.Tables()...).Drop(ctx); err != nil {
		return err
	}
	rt.log.Info("tables dropped")
	return nil
}

func seedData(ctx context.Context, cmd *cli.Command) error {
	rt, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := initSchema(ctx, rt); err != nil {
		return err
	}

	_, err = seed.NewSeeder(repository.NewStore(rt.db), rt.cfg.Auth.BcryptCost, rt.log).Run(ctx, seed.Options{
		Sellers:           cmd.Int("sellers"),
		ProductsPerSeller: cmd.Int("products"),
		Categories:        cmd.Int("categories"),
		Users:             cmd.Int("users"),
	})
	return err
}

func lowStock(ctx context.Context, cmd *cli.Command) error {
	rt, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := initSchema(ctx, rt); err != nil {
		return err
	}

	tm := task.NewTaskManager(repository.NewStore(rt.db), task.TaskManagerConfig{
		LowStockCron: rt.cfg.Task.LowStockCron,
	}, rt.log)
	items, err := tm.TriggerLowStockReport(ctx)
	if err != nil {
		return err
	}

	w := os.Stdout
	if len(items) == 0 {
		fmt.Fprintln(w, "no products at or below their reorder level")
		return nil
	}
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\tquantity=%d\treorder_level=%d\n", it.ProductID, it.ProductName, it.Quantity, it.ReorderLevel)
	}
	return nil
}

// ==================== Server ====================

// startServer blocks until SIGINT or SIGTERM, then drains in-flight requests.
func startServer(rt *app, r *gin.Engine) error {
	srv := &http.Server{
		Addr:    ":" + rt.cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		rt.log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	rt.log.Info("server stopped")
	return nil
}
