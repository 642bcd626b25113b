package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/civicdocs/formportal/internal/config"
	"github.com/civicdocs/formportal/internal/db"
	"github.com/civicdocs/formportal/internal/gelf"
	"github.com/civicdocs/formportal/internal/handler"
	"github.com/civicdocs/formportal/internal/models"
	"github.com/civicdocs/formportal/internal/notify"
	"github.com/civicdocs/formportal/internal/repository"
	"github.com/civicdocs/formportal/internal/router"
	"github.com/civicdocs/formportal/internal/service"
	"github.com/civicdocs/formportal/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr)
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	// Connect to the remote document store
	pool, err := db.NewPool(cfg.OxiDBHost, cfg.OxiDBPort, cfg.PoolSize)
	if err != nil {
		log.Fatalf("Failed to connect to document store: %v", err)
	}
	defer pool.Close()
	log.Printf("Connected to document store at %s:%d (pool size: %d)", cfg.OxiDBHost, cfg.OxiDBPort, cfg.PoolSize)

	// Repositories
	userRepo := repository.NewUserRepo(pool)
	formRepo := repository.NewFormRepo(pool)
	draftRepo := repository.NewDraftRepo(pool)
	subRepo := repository.NewSubmissionRepo(pool)
	valRepo := repository.NewValidationRepo(pool)

	// Tiered draft storage: local cache first, remote mirror best-effort
	draftStore := store.NewTiered(store.NewCache(), draftRepo)

	// Notification dispatcher (optional)
	var dispatcher *notify.Dispatcher
	if cfg.NotifyURL != "" {
		dispatcher = notify.New(cfg.NotifyURL)
		log.Printf("Notifications: enabled (%s)", cfg.NotifyURL)
	}

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	catalogSvc := service.NewCatalogService(formRepo)
	var notifier service.Notifier
	if dispatcher != nil {
		notifier = dispatcher
	}
	subSvc := service.NewSubmissionService(subRepo, userRepo, notifier)
	draftSvc := service.NewDraftService(draftStore, formRepo, subSvc)
	valSvc := service.NewValidationService(valRepo)
	searchSvc := service.NewSearchService(pool, subRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	formH := handler.NewFormHandler(catalogSvc)
	draftH := handler.NewDraftHandler(draftSvc)
	subH := handler.NewSubmissionHandler(subSvc)
	valH := handler.NewValidationHandler(valSvc)
	notifH := handler.NewNotificationHandler(dispatcher)
	searchH := handler.NewSearchHandler(searchSvc)
	dashH := handler.NewDashboardHandler(formRepo, draftRepo, subRepo, valRepo)
	adminH := handler.NewAdminHandler(subRepo)

	// Router
	r := router.New(cfg.JWTSecret, authH, formH, draftH, subH, valH, notifH, searchH, dashH, adminH)

	// Start HTTP server immediately; run index creation, bucket setup, and
	// seeding in background on a dedicated connection so long-running index
	// builds don't block the HTTP handler pool.
	go backgroundInit(cfg, pool)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Printf("formportal server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
	// Drain pending draft mirrors and notifications before exit.
	draftStore.Flush()
	subSvc.Flush()
}

func backgroundInit(cfg *config.Config, pool *db.Pool) {
	log.Printf("Background init: starting")
	initPool, err := db.NewPool(cfg.OxiDBHost, cfg.OxiDBPort, 1)
	if err != nil {
		log.Printf("Warning: init pool connect failed, using main pool: %v", err)
		initPool = pool
	}
	defer func() {
		if initPool != pool {
			initPool.Close()
		}
	}()

	userRepo := repository.NewUserRepo(initPool)
	formRepo := repository.NewFormRepo(initPool)
	draftRepo := repository.NewDraftRepo(initPool)
	subRepo := repository.NewSubmissionRepo(initPool)
	valRepo := repository.NewValidationRepo(initPool)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)

	log.Printf("Background init: creating indexes...")
	userRepo.EnsureIndexes()
	formRepo.EnsureIndexes()
	draftRepo.EnsureIndexes()
	valRepo.EnsureIndexes()
	valRepo.EnsureBucket()

	log.Printf("Background init: seeding admin user...")
	if err := authSvc.SeedAdmin(cfg.AdminEmail, cfg.AdminPass); err != nil {
		log.Printf("Warning: failed to seed admin: %v", err)
	}

	if cfg.FormSeedPath != "" {
		if err := seedCatalog(cfg.FormSeedPath, formRepo); err != nil {
			log.Printf("Warning: catalog seed failed: %v", err)
		}
	}

	// Submission indexes last; can take minutes on large datasets.
	start := time.Now()
	if err := subRepo.EnsureIndexes(); err != nil {
		log.Printf("Warning: submission index creation failed: %v", err)
	}
	if err := subRepo.EnsureTextIndex([]string{"data"}); err != nil {
		log.Printf("Warning: text index creation failed: %v", err)
	}
	log.Printf("Background init: done (%s)", time.Since(start).Round(time.Second))
}

func seedCatalog(path string, formRepo *repository.FormRepo) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var forms []models.FormDefinition
	if err := json.Unmarshal(data, &forms); err != nil {
		return err
	}
	added, err := service.NewCatalogService(formRepo).Seed(forms)
	if err != nil {
		return err
	}
	log.Printf("Background init: catalog seeded (%d new forms)", added)
	return nil
}
