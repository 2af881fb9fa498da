package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vsinha/opsched/pkg/application/services/engine"
	"github.com/vsinha/opsched/pkg/domain/entities"
	"github.com/vsinha/opsched/pkg/infrastructure/logging"
	"github.com/vsinha/opsched/pkg/infrastructure/metrics"
	schedhttp "github.com/vsinha/opsched/pkg/interfaces/http"
	"github.com/vsinha/opsched/pkg/infrastructure/repositories/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		jobID       = flag.String("job", "DEMO-JOB-1", "Job id to schedule")
		companyID   = flag.String("company", "DEMO-CO", "Company id")
		userID      = flag.String("user", "cli", "User id recorded on the request")
		direction   = flag.String("direction", "backward", "Scheduling direction: backward or forward")
		mode        = flag.String("mode", "initial", "Scheduling mode: initial or reschedule")
		dueInDays   = flag.Int("due-in-days", 20, "Calendar days from today used as the demo job's due date")
		postgresDSN = flag.String("postgres", "", "Postgres DSN; when empty, an in-memory demo fixture is used")
		httpAddr    = flag.String("http", "", "If set, serve the scheduling HTTP adapter on this address instead of running once")
		logFormat   = flag.String("log-format", "console", "Log format: console or json")
		verbose     = flag.Bool("verbose", false, "Enable debug-level logging")
	)
	flag.Parse()

	logCfg := logging.Default()
	if *logFormat == "json" {
		logCfg.Format = logging.JSON
	}
	if *verbose {
		logCfg.Level = zapcore.DebugLevel
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	var eng *engine.Engine
	if *postgresDSN != "" {
		db, err := postgres.Open(*postgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to connect to postgres: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		eng = engine.NewWithConfig(
			postgres.NewAssemblyRepository(db),
			postgres.NewOperationRepository(db),
			postgres.NewDependencyRepository(db),
			postgres.NewJobRepository(db),
			postgres.NewProcessRepository(db),
			postgres.NewWorkCenterRepository(db),
			engine.Config{Logger: logger, Metrics: recorder},
		)
	} else {
		dueDate := time.Now().AddDate(0, 0, *dueInDays)
		assemblyRepo, opRepo, depRepo, jobRepo, processRepo, wcRepo := demoRepos(*companyID, entities.JobID(*jobID), dueDate)
		eng = engine.NewWithConfig(assemblyRepo, opRepo, depRepo, jobRepo, processRepo, wcRepo, engine.Config{Logger: logger, Metrics: recorder})
	}

	if *httpAddr != "" {
		serve(eng, logger, registry, *httpAddr)
		return
	}

	req := engine.Request{
		JobID:     *jobID,
		CompanyID: *companyID,
		UserID:    *userID,
		Mode:      engine.Mode(*mode),
		Direction: engine.Direction(*direction),
	}

	result, err := eng.Run(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scheduling failed: %v\n", err)
		os.Exit(1)
	}

	printResult(*jobID, result)
}

func serve(eng *engine.Engine, logger *zap.Logger, registry *prometheus.Registry, addr string) {
	router := mux.NewRouter()

	h := schedhttp.NewHandler(eng, logger)
	h.RegisterRoutes(router)

	cors := schedhttp.CORS(schedhttp.DefaultCORSConfig())
	router.Use(cors)

	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	fmt.Printf("listening on %s\n", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func printResult(jobID string, r *engine.Result) {
	fmt.Printf("Job %s scheduled\n", jobID)
	fmt.Printf("  Operations scheduled: %d\n", r.OperationsScheduled)
	fmt.Printf("  Conflicts detected:   %d\n", r.ConflictsDetected)
	fmt.Printf("  Assembly depth:       %d\n", r.AssemblyDepth)
	fmt.Printf("  Work centers touched: %v\n", r.WorkCentersAffected)
}
