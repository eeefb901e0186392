package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/shopboard/shopboard/app/admin"
	"github.com/shopboard/shopboard/app/catalog"
	"github.com/shopboard/shopboard/app/server"
	"github.com/shopboard/shopboard/config"
	"github.com/shopboard/shopboard/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := models.Open(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("%v", err)
	}

	categoryRepo := models.NewCategoriesRepository(db)
	productRepo := models.NewProductsRepository(db)
	todoRepo := models.NewTodosRepository(db)

	deps := server.Deps{
		SessionSecret: cfg.SessionSecret,
		MediaDir:      cfg.MediaDir,
		Categories:    categoryRepo,
		Products:      productRepo,
		Todos:         todoRepo,
		Images:        catalog.NewDiskImageStore(cfg.MediaDir),
	}

	if cfg.AdminEnabled() {
		creds, err := admin.NewCredentials(cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			log.Fatalf("Failed to prepare admin credentials: %v", err)
		}
		deps.Tokens = admin.NewJWTManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
		deps.Admin = admin.NewAdminHandler(categoryRepo, productRepo, todoRepo, creds, deps.Tokens)
	} else {
		log.Println("WARNING: ADMIN_PASSWORD is not set, admin console disabled")
	}

	router, err := server.NewRouter(deps)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("Listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return srv.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	if err := models.Close(db); err != nil {
		log.Printf("WARNING: %v", err)
	}
	log.Printf("Server exited with code: %d", exitCode)
	os.Exit(exitCode)
}
