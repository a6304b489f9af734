// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	router "wakala-ledger/internal/api"
	"wakala-ledger/internal/api/handler"
	"wakala-ledger/internal/config"
	"wakala-ledger/internal/events"
	"wakala-ledger/internal/metrics"
	"wakala-ledger/internal/repository"
	"wakala-ledger/internal/repository/sqlrepo"
	"wakala-ledger/internal/scheduler"
	"wakala-ledger/internal/service"
	"wakala-ledger/internal/util"
	"wakala-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config   *config.AppConfig
	Logger   *slog.Logger
	DB       *sqlx.DB
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Events   *events.Bus

	Repositories repository.Repositories

	// Services
	Ledger      service.LedgerService
	Users       service.UserService
	Groups      service.GroupService
	Loans       service.LoanService
	Investments service.InvestmentService
	Eligibility service.EligibilityService
	Analytics   service.AnalyticsService

	Scheduler *scheduler.Scheduler

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize loads the configuration and initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return app.InitializeWithConfig(ctx, cfg)
}

// InitializeWithConfig initializes all application components from cfg.
func (app *Application) InitializeWithConfig(ctx context.Context, cfg *config.AppConfig) error {
	app.Config = cfg

	// 1. Initialize Logger
	util.InitLogger(cfg.Log)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "db_driver", cfg.DB.Driver)

	// 2. Connect to Database
	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 3. Metrics and domain events
	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = metrics.New(app.Registry)
	app.Events = events.NewBus(app.Logger, app.Metrics)
	app.Events.Subscribe(events.LogHandler(app.Logger))

	// 4. Initialize Repositories
	app.Repositories = sqlrepo.NewRepositories(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	tx := service.DefaultTxFuncs()
	locker := service.NewGroupLocker(cfg.Ledger.GetLockTimeout())
	clock := service.SystemClock

	app.Ledger = service.NewLedgerService(app.DB, app.DB, app.Repositories, tx, locker, clock, app.Metrics, app.Logger)
	app.Users = service.NewUserService(app.DB, app.DB, app.Repositories, tx)
	app.Groups = service.NewGroupService(app.DB, app.DB, app.Repositories, tx, locker, app.Logger)
	app.Eligibility = service.NewEligibilityService(app.DB, app.Repositories)
	app.Analytics = service.NewAnalyticsService(app.DB, app.Repositories, clock)
	app.Loans = service.NewLoanService(app.DB, app.Repositories, app.Ledger, app.Eligibility, clock, app.Logger)
	app.Investments = service.NewInvestmentService(app.DB, app.Repositories, app.Ledger, app.Eligibility)
	app.Logger.Info("Services initialized.")

	// 6. Lifecycle scheduler
	app.Scheduler = scheduler.New(app.DB, app.Repositories, app.Events, clock, cfg.Scheduler.GetInterval(), app.Metrics, app.Logger)
	if cfg.Scheduler.Enabled {
		app.Scheduler.Start()
	}

	// 7. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Users:       handler.NewUserHandler(app.Users, app.Logger),
		Groups:      handler.NewGroupHandler(app.Groups, app.Ledger, app.Eligibility, app.Analytics, app.Logger),
		Memberships: handler.NewMembershipHandler(app.Groups, app.Ledger, app.Eligibility, app.Logger),
		Loans:       handler.NewLoanHandler(app.Loans, app.Logger),
		Investments: handler.NewInvestmentHandler(app.Investments, app.Logger),
	}, app.Registry)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Scheduler != nil {
		app.Scheduler.Stop()
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
