// Package container wires the record store, application services, workers
// and HTTP server together and manages their lifecycle.
package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/homieapp/homie/internal/application/formscript"
	"github.com/homieapp/homie/internal/application/service"
	"github.com/homieapp/homie/internal/config"
	"github.com/homieapp/homie/internal/dashboard"
	"github.com/homieapp/homie/internal/infrastructure/persistence/repository"
	"github.com/homieapp/homie/internal/infrastructure/persistence/sqlite"
	"github.com/homieapp/homie/internal/infrastructure/worker"
	httpserver "github.com/homieapp/homie/internal/interfaces/http"
	"github.com/homieapp/homie/migrations"
	"github.com/homieapp/homie/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB             *database.DB
	TransactionMgr *sqlite.DB
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	service.Repositories
	Naming *repository.NamingRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Records   service.RecordService
	Intake    service.IntakeService
	Forms     *formscript.Manager
	Dashboard dashboard.Source
	Renderer  *dashboard.Renderer
}

// ProvideDatabase opens the record store and applies pending migrations.
// Migrations come from database.migrations_dir when set and from the
// binary otherwise.
func ProvideDatabase(cfg *config.DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if cfg.MigrationsDir != "" {
		err = migrator.RunMigrations(cfg.MigrationsDir)
	} else {
		err = migrator.Run(migrations.FS)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:             db,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	sqlDB := db.DB
	return &RepositoryBundle{
		Repositories: service.Repositories{
			Persons:       repository.NewPersonRepository(sqlDB, logger),
			Contacts:      repository.NewContactPersonRepository(sqlDB, logger),
			Shelters:      repository.NewShelterRepository(sqlDB, logger),
			Organizations: repository.NewOrganizationRepository(sqlDB, logger),
			Products:      repository.NewProductRepository(sqlDB, logger),
			Associations:  repository.NewAssociationRepository(sqlDB, logger),
			Animals:       repository.NewAnimalInformationRepository(sqlDB, logger),
			Deliveries:    repository.NewDeliveryRepository(sqlDB, logger),
			Donations:     repository.NewDonationRepository(sqlDB, logger),
			Payments:      repository.NewPaymentRepository(sqlDB, logger),
			FoodDemands:   repository.NewFoodDemandRepository(sqlDB, logger),
			PersonDemands: repository.NewPersonDemandRepository(sqlDB, logger),
		},
		Naming: repository.NewNamingRepository(sqlDB, logger),
	}, nil
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Repos     *RepositoryBundle
	TxManager *sqlite.DB
	Forms     *config.FormsConfig
	Dashboard *config.DashboardConfig
	Logger    *zap.Logger
}

// ProvideServices creates the record, intake, form session and dashboard services.
// The dashboards read from the local store unless an aggregate URL is configured.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Repos == nil || deps.TxManager == nil {
		return nil, fmt.Errorf("repositories and transaction manager are required")
	}
	if deps.Forms == nil || deps.Dashboard == nil {
		return nil, fmt.Errorf("forms and dashboard config are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	log := &zapLoggerAdapter{logger: deps.Logger}
	repos := deps.Repos

	records := service.NewRecordService(repos.Repositories, repos.Naming, deps.TxManager, log)
	intake := service.NewIntakeService(repos.Donations, repos.Payments, records, log)

	forms := formscript.NewManager(records, records, records, formscript.Config{
		FetchTimeout: deps.Forms.FetchTimeout,
		IdleTTL:      deps.Forms.IdleTTL,
	}, log, formscript.DefaultScripts()...)

	var source dashboard.Source
	if deps.Dashboard.AggregateBaseURL != "" {
		source = dashboard.NewClient(deps.Dashboard.AggregateBaseURL, deps.Dashboard.ClientTimeout, log)
		deps.Logger.Info("Dashboards read from remote aggregates",
			zap.String("base_url", deps.Dashboard.AggregateBaseURL))
	} else {
		source = dashboard.NewService(dashboard.Repositories{
			Organizations: repos.Organizations,
			Products:      repos.Products,
			Persons:       repos.Persons,
			Donations:     repos.Donations,
			Deliveries:    repos.Deliveries,
		}, deps.Dashboard.ListLimit, log)
	}

	renderer, err := dashboard.NewRenderer(deps.Dashboard.Currency)
	if err != nil {
		forms.Shutdown()
		return nil, fmt.Errorf("failed to parse dashboard templates: %w", err)
	}

	return &ServiceBundle{
		Records:   records,
		Intake:    intake,
		Forms:     forms,
		Dashboard: source,
		Renderer:  renderer,
	}, nil
}

// ProvideWorkers registers the background workers.
func ProvideWorkers(forms *formscript.Manager, cfg *config.FormsConfig, logger *zap.Logger) (*worker.Manager, error) {
	if forms == nil {
		return nil, fmt.Errorf("form session manager is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("forms config is required")
	}

	workers := worker.NewManager(logger)
	workers.Register(worker.NewSessionJanitor(worker.SessionJanitorConfig{
		Interval: cfg.JanitorInterval,
	}, forms, logger))
	return workers, nil
}

// ProvideServer creates the HTTP server.
func ProvideServer(cfg *config.Config, services *ServiceBundle, logger *zap.Logger) (*httpserver.Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}

	return httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpserver.Dependencies{
		Records:   services.Records,
		Intake:    services.Intake,
		Forms:     services.Forms,
		Dashboard: services.Dashboard,
		Renderer:  services.Renderer,
		IntakeAuth: httpserver.IntakeConfig{
			AllowGuest: cfg.Intake.AllowGuest,
			APIToken:   cfg.Intake.APIToken,
		},
	}, &zapLoggerAdapter{logger: logger}), nil
}
