package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rbarbosa/sentiq/internal/align"
	"github.com/rbarbosa/sentiq/internal/api/handlers"
	"github.com/rbarbosa/sentiq/internal/backtest"
	"github.com/rbarbosa/sentiq/internal/classify"
	"github.com/rbarbosa/sentiq/internal/contracts"
	"github.com/rbarbosa/sentiq/internal/ingest"
	"github.com/rbarbosa/sentiq/internal/marketdata"
	"github.com/rbarbosa/sentiq/internal/pipeline"
	"github.com/rbarbosa/sentiq/internal/report"
	"github.com/rbarbosa/sentiq/internal/resolve"
	"github.com/rbarbosa/sentiq/internal/scheduler"
	"github.com/rbarbosa/sentiq/internal/scheduler/jobs"
	"github.com/rbarbosa/sentiq/internal/signal"
	"github.com/rbarbosa/sentiq/internal/strategy"
	"github.com/rbarbosa/sentiq/pkg/config"
	"github.com/rbarbosa/sentiq/pkg/database"
	"github.com/rbarbosa/sentiq/pkg/httputil"
	"github.com/rbarbosa/sentiq/pkg/logger"
	"github.com/rbarbosa/sentiq/pkg/redis"
)

// runtime bundles the wired components a command needs. Close releases
// the infrastructure connections.
type runtime struct {
	cfg          *config.Config
	log          *logger.Logger
	store        *ingest.CorpusStore
	orchestrator *pipeline.Orchestrator
	handler      *handlers.PipelineHandler
	scheduler    *scheduler.Scheduler

	db    *database.DB
	redis *redis.Client
}

// newRuntime loads configuration and wires the whole pipeline.
// PostgreSQL is optional: without DATABASE_URL the price cache layer is
// skipped and every run goes to the chart API. Redis is optional the
// same way. offline selects the keyword classifier over the inference
// service.
func newRuntime(offline bool) (*runtime, error) {
	var cfg *config.Config
	var err error
	if envFile != "" {
		cfg, err = config.LoadFrom(envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var cache *redis.Cache
	if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "sentiq")
	}

	var db *database.DB
	var priceRepo *marketdata.PriceRepository
	if cfg.Database.URL != "" {
		db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		priceRepo = marketdata.NewPriceRepository(db.Pool)
		log.Info("Price cache database connected")
	} else {
		log.Info("DATABASE_URL not set, price caching disabled")
	}

	httpClient := httputil.New(log)
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "sentiq")
		httpClient = httpClient.WithRateLimiter(limiter, redis.YahooRateLimit)
	}

	var classifier contracts.SentimentClassifier
	if offline || cfg.Classifier.BaseURL == "" {
		classifier = classify.NewDefaultStaticClassifier()
		log.Info("Using offline keyword classifier")
	} else {
		classifierHTTP := httputil.NewWithTimeout(log, cfg.Classifier.Timeout)
		classifier = classify.NewHTTPClassifier(cfg.Classifier, classifierHTTP, cache, log)
	}

	table, err := resolve.LoadTickerTable(cfg.TickerMapPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load ticker table: %w", err)
		}
		log.WithField("path", cfg.TickerMapPath).Warn("Ticker table not found, resolution will exclude everything")
		table = resolve.NewTickerTable(nil)
	}

	engine, err := strategy.NewEngine(cfg.Strategy, log)
	if err != nil {
		return nil, fmt.Errorf("strategy config: %w", err)
	}

	store := ingest.NewCorpusStore(cfg.CorpusPath)
	yahoo := marketdata.NewYahooClient(cfg.Yahoo, httpClient, log)
	provider := marketdata.NewService(yahoo, priceRepo, cache, log)

	orch := pipeline.NewOrchestrator(
		cfg,
		store,
		ingest.NewIngestor(store, ingest.NewNormalizer(cfg.IngestLocale), classifier, log),
		resolve.NewResolver(table, resolve.NewTableExtractor(table), log),
		signal.NewAggregator(log),
		align.NewAligner(log),
		engine,
		backtest.NewSimulator(cfg.Strategy, log),
		provider,
		report.NewBuilder(log),
		log,
	)

	return &runtime{
		cfg:          cfg,
		log:          log,
		store:        store,
		orchestrator: orch,
		handler:      handlers.NewPipelineHandler(store, nil, cfg, log),
		db:           db,
		redis:        redisClient,
	}, nil
}

// withScheduler registers the daily routine and attaches the scheduler
// to the API handler.
func (rt *runtime) withScheduler() error {
	sched := scheduler.New(rt.log)
	if err := sched.AddJob(jobs.NewDailyRoutineJob(rt.orchestrator, rt.cfg, rt.log)); err != nil {
		return err
	}
	rt.scheduler = sched
	rt.handler = handlers.NewPipelineHandler(rt.store, sched, rt.cfg, rt.log)
	return nil
}

func (rt *runtime) Close() {
	if rt.db != nil {
		rt.db.Close()
	}
	if rt.redis != nil {
		rt.redis.Close()
	}
}
