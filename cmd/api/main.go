package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/ASEODA/narashop-estimate/internal/adapters/storage"
	"github.com/ASEODA/narashop-estimate/internal/auth"
	"github.com/ASEODA/narashop-estimate/internal/catalog"
	"github.com/ASEODA/narashop-estimate/internal/history"
	apphttp "github.com/ASEODA/narashop-estimate/internal/http"
	"github.com/ASEODA/narashop-estimate/internal/http/router"
	"github.com/ASEODA/narashop-estimate/internal/imaging"
	"github.com/ASEODA/narashop-estimate/internal/quotes"
	"github.com/ASEODA/narashop-estimate/internal/scheduler"
	"github.com/ASEODA/narashop-estimate/platform/config"
	"github.com/ASEODA/narashop-estimate/platform/events"
	"github.com/ASEODA/narashop-estimate/platform/logger"
	"github.com/ASEODA/narashop-estimate/platform/validator"

	"golang.org/x/sync/errgroup"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)
	if cfg.GetCatalogServiceKey() == "" {
		log.Warn("CATALOG_SERVICE_KEY not configured; every catalog lookup will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var historyBackend history.Backend
	if err := withRetry(ctx, log, "history store", 5, 2*time.Second, func() error {
		b, err := history.OpenStore(ctx, cfg, log)
		if err != nil {
			return err
		}
		historyBackend = b
		return nil
	}); err != nil {
		log.Error("failed to open history store", "error", err)
		panic("failed to open history store: " + err.Error())
	}
	defer historyBackend.Close()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Object storage is optional: without it documents are not archived and
	// product images are not cached between requests.
	var storageSvc *storage.MinIOService
	if cfg.IsMinIOEnabled() {
		storageSvc, err = storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, storageSvc, "estimates", cfg.GetMinioBucketEstimates())
		ensureBucket(ctx, log, storageSvc, "product-images", cfg.GetMinioBucketProductImages())
		log.Info(
			"storage service initialized",
			"estimatesBucket", cfg.GetMinioBucketEstimates(),
			"productImagesBucket", cfg.GetMinioBucketProductImages(),
		)
	} else {
		log.Warn("MinIO not configured; document archive and image cache disabled")
	}

	enqueuer, closeEnqueuer := initHistoryEnqueuer(cfg, historyBackend, log)
	if closeEnqueuer != nil {
		defer closeEnqueuer()
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule := auth.NewModule(cfg, log, val)
	catalogModule := catalog.NewModule(cfg, log)

	var imageCache imaging.Cache
	if storageSvc != nil {
		imageCache = imaging.NewObjectCache(storageSvc, cfg.GetMinioBucketProductImages())
	}
	images := imaging.New(cfg, imageCache, log)

	issuer, err := config.LoadCompanyProfile(cfg.GetCompanyProfilePath())
	if err != nil {
		log.Warn("company profile unavailable; using built-in issuer", "error", err)
	}
	quoteSvc := quotes.NewService(catalogModule.Service(), images, issuer, log)
	quoteSvc.SetSeal(loadSeal(cfg.GetSealImagePath(), log))
	quoteSvc.SetLocation(loadLocation(cfg.GetQuoteTimezone(), log))
	quotesModule := quotes.NewModule(quoteSvc, eventBus, val)

	historyModule := history.NewModule(historyBackend.Store, cfg.GetHistoryLimit(), eventBus, log)
	if storageSvc != nil {
		historyModule.Recorder().SetArchiver(storageSvc, cfg.GetMinioBucketEstimates())
		historyModule.Service().SetSigner(storageSvc, cfg.GetMinioBucketEstimates())
	}
	if enqueuer != nil {
		historyModule.Recorder().SetEnqueuer(enqueuer)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   historyBackend.Health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			catalogModule,
			quotesModule,
			historyModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}

	// Let in-flight history recording finish before the stores close.
	eventBus.Wait()
	log.Info("server stopped")
}

// initHistoryEnqueuer routes history appends through the task queue. Only a
// shared store can be written by the worker process.
func initHistoryEnqueuer(cfg config.SchedulerConfig, backend history.Backend, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" || !backend.Shared() {
		log.Info("history appends run in-process")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// loadSeal reads the seal image. A missing seal is not fatal; quotations are
// issued without it.
func loadSeal(path string, log *logger.Logger) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("seal image unavailable", "path", path, "error", err)
		return nil
	}
	return data
}

func loadLocation(name string, log *logger.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("unknown quote timezone; using UTC", "timezone", name, "error", err)
		return time.UTC
	}
	return loc
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
