// Package wire provides dependency injection for shopplan.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	cliadapter "github.com/example/shopplan/internal/adapters/cli"
	"github.com/example/shopplan/internal/adapters/httpapi"
	"github.com/example/shopplan/internal/adapters/sqlite"
	"github.com/example/shopplan/internal/app"
	"github.com/example/shopplan/internal/config"
	"github.com/example/shopplan/internal/db"
	"github.com/example/shopplan/internal/logger"
	"github.com/example/shopplan/internal/metrics"
	"github.com/example/shopplan/internal/ports/primary"
	"github.com/example/shopplan/internal/ports/secondary"
)

var (
	cfg = config.Default()

	assignmentService primary.AssignmentService
	scenarioService   primary.ScenarioService
	ledgerService     primary.LedgerService
	forecastService   primary.ForecastService
	registryService   primary.RegistryService
	logService        primary.LogService
	once              sync.Once
)

// Configure sets the configuration used to build services. It must be called
// before the first service is requested.
func Configure(c *config.Config) {
	if c != nil {
		cfg = c
	}
}

// Config returns the active configuration.
func Config() *config.Config {
	return cfg
}

// AssignmentService returns the singleton AssignmentService instance.
func AssignmentService() primary.AssignmentService {
	once.Do(initServices)
	return assignmentService
}

// ScenarioService returns the singleton ScenarioService instance.
func ScenarioService() primary.ScenarioService {
	once.Do(initServices)
	return scenarioService
}

// LedgerService returns the singleton LedgerService instance.
func LedgerService() primary.LedgerService {
	once.Do(initServices)
	return ledgerService
}

// ForecastService returns the singleton ForecastService instance.
func ForecastService() primary.ForecastService {
	once.Do(initServices)
	return forecastService
}

// RegistryService returns the singleton RegistryService instance.
func RegistryService() primary.RegistryService {
	once.Do(initServices)
	return registryService
}

// LogService returns the singleton LogService instance.
func LogService() primary.LogService {
	once.Do(initServices)
	return logService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	db.Configure(cfg.Database.Path)
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	l := logger.New("app")

	var sink secondary.MetricsSink = metrics.NopSink{}
	if prom, err := metrics.NewPromSink(prometheus.DefaultRegisterer); err != nil {
		l.Warnf("metrics disabled: %v", err)
	} else {
		sink = prom
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	assignmentRepo := sqlite.NewAssignmentRepository(database)
	shopRepo := sqlite.NewResourceRepository(database)
	carRepo := sqlite.NewWorkItemRepository(database)
	scenarioRepo := sqlite.NewScenarioRepository(database)
	auditRepo := sqlite.NewAuditLogRepository(database)

	var store secondary.HistoryStore
	if cfg.History.Backend == config.HistoryBackendSQLite {
		store = sqlite.NewHistoryStore(database)
	}
	hist := app.NewHistoryManager(cfg.History.Capacity, store, cfg.History.Session, l)

	opts := []app.Option{app.WithLogger(l), app.WithMetrics(sink)}

	assignments := app.NewAssignmentService(sqlite.NewTransactor(database), assignmentRepo, hist, opts...)
	assignmentService = assignments
	scenarioService = app.NewScenarioService(scenarioRepo, assignmentRepo, shopRepo, assignments, opts...)
	ledgerService = app.NewLedgerService(assignmentRepo, shopRepo)
	forecastService = app.NewForecastService(assignmentRepo, shopRepo, cfg.Forecast.Months, opts...)
	registryService = app.NewRegistryService(carRepo, shopRepo)
	logService = app.NewLogService(auditRepo)
}

// AssignmentAdapter returns a new AssignmentAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func AssignmentAdapter() *cliadapter.AssignmentAdapter {
	return AssignmentAdapterWithOutput(os.Stdout)
}

// AssignmentAdapterWithOutput returns a new AssignmentAdapter writing to the given output.
func AssignmentAdapterWithOutput(out io.Writer) *cliadapter.AssignmentAdapter {
	once.Do(initServices)
	return cliadapter.NewAssignmentAdapter(assignmentService, out)
}

// PlanningAdapter returns a new PlanningAdapter writing to stdout.
func PlanningAdapter() *cliadapter.PlanningAdapter {
	return PlanningAdapterWithOutput(os.Stdout)
}

// PlanningAdapterWithOutput returns a new PlanningAdapter writing to the given output.
func PlanningAdapterWithOutput(out io.Writer) *cliadapter.PlanningAdapter {
	once.Do(initServices)
	return cliadapter.NewPlanningAdapter(ledgerService, scenarioService, forecastService, out)
}

// RegistryAdapter returns a new RegistryAdapter writing to stdout.
func RegistryAdapter() *cliadapter.RegistryAdapter {
	return RegistryAdapterWithOutput(os.Stdout)
}

// RegistryAdapterWithOutput returns a new RegistryAdapter writing to the given output.
func RegistryAdapterWithOutput(out io.Writer) *cliadapter.RegistryAdapter {
	once.Do(initServices)
	return cliadapter.NewRegistryAdapter(registryService, out)
}

// HTTPServer returns an API server bound to addr, or to the configured
// address when addr is empty. /metrics serves the default registry.
func HTTPServer(addr string) *httpapi.Server {
	once.Do(initServices)
	if addr == "" {
		addr = cfg.HTTP.Addr
	}
	h := &httpapi.Handler{
		Assignments: assignmentService,
		Scenarios:   scenarioService,
		Ledger:      ledgerService,
		Forecasts:   forecastService,
		Logger:      logger.New("http"),
	}
	return httpapi.NewServer(h, addr, prometheus.DefaultGatherer)
}
